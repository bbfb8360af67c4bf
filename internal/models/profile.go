package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ActivityLevel scales a basal metabolic rate into a daily calorie target.
type ActivityLevel string

const (
	Sedentary        ActivityLevel = "SEDENTARY"
	LightlyActive    ActivityLevel = "LIGHTLY_ACTIVE"
	ModeratelyActive ActivityLevel = "MODERATELY_ACTIVE"
	VeryActive       ActivityLevel = "VERY_ACTIVE"
	ExtraActive      ActivityLevel = "EXTRA_ACTIVE"
)

// Multiplier returns the TDEE multiplier for the level.
func (l ActivityLevel) Multiplier() float64 {
	switch l {
	case Sedentary:
		return 1.2
	case LightlyActive:
		return 1.375
	case ModeratelyActive:
		return 1.55
	case VeryActive:
		return 1.725
	case ExtraActive:
		return 1.9
	}
	return 0
}

// ParseActivityLevel parses the wire representation of an activity level.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	switch ActivityLevel(s) {
	case Sedentary, LightlyActive, ModeratelyActive, VeryActive, ExtraActive:
		return ActivityLevel(s), nil
	}
	return "", fmt.Errorf("unknown activity level %q", s)
}

// CalorieMethod selects the formula that turns age/weight/height/activity
// into a daily calorie target.
type CalorieMethod string

const (
	HarrisBenedict CalorieMethod = "HARRIS_BENEDICT"
	MifflinStJeor  CalorieMethod = "MIFFLIN_ST_JEOR"
)

// ParseCalorieMethod parses the wire representation of a calorie method.
func ParseCalorieMethod(s string) (CalorieMethod, error) {
	switch CalorieMethod(s) {
	case HarrisBenedict, MifflinStJeor:
		return CalorieMethod(s), nil
	}
	return "", fmt.Errorf("unknown calorie method %q", s)
}

// Defaults used when an entry is created with no previous day to carry
// forward from.
const (
	DefaultAge    = 30
	DefaultWeight = 70.0
)

// DefaultActivityLevel seeds brand-new profile entries.
const DefaultActivityLevel = ModeratelyActive

// ProfileEntry is a date-specific snapshot of the user's metrics and the
// resulting calorie target and consumption.
type ProfileEntry struct {
	Age              int           `json:"age"`
	Weight           float64       `json:"weight"`
	ActivityLevel    ActivityLevel `json:"activity_level"`
	TargetCalories   float64       `json:"target_calories"`
	ConsumedCalories float64       `json:"consumed_calories"`
	UpdateMade       bool          `json:"update_made"`
}

// CalorieInfo summarizes one day's calorie budget.
type CalorieInfo struct {
	TargetCalories   float64 `json:"target_calories"`
	ConsumedCalories float64 `json:"consumed_calories"`
	Difference       float64 `json:"difference"`
}

// UserProfile holds the user's fixed attributes and the per-date entry map.
// Entries are keyed by wire-format date strings.
type UserProfile struct {
	Name          string                   `json:"name"`
	Gender        string                   `json:"gender"`
	Height        float64                  `json:"height"`
	CalorieMethod CalorieMethod            `json:"calorie_method"`
	Entries       map[string]*ProfileEntry `json:"entries"`
}

// NewUserProfile creates a profile with no entries, defaulting to the
// Harris-Benedict method.
func NewUserProfile(name, gender string, height float64) *UserProfile {
	return &UserProfile{
		Name:          name,
		Gender:        gender,
		Height:        height,
		CalorieMethod: HarrisBenedict,
		Entries:       make(map[string]*ProfileEntry),
	}
}

// TargetCalories computes the daily target under the profile's current
// method. Gender is compared case-insensitively; any value other than "male"
// takes the female branch.
func (p *UserProfile) TargetCalories(age int, weight float64, level ActivityLevel) float64 {
	male := strings.EqualFold(p.Gender, "Male")
	var bmr float64
	switch p.CalorieMethod {
	case MifflinStJeor:
		if male {
			bmr = 10*weight + 6.25*p.Height - 5*float64(age) + 5
		} else {
			bmr = 10*weight + 6.25*p.Height - 5*float64(age) - 161
		}
	default: // Harris-Benedict
		if male {
			bmr = 66.5 + 13.75*weight + 5.003*p.Height - 6.755*float64(age)
		} else {
			bmr = 655.1 + 9.563*weight + 1.850*p.Height - 4.676*float64(age)
		}
	}
	return bmr * level.Multiplier()
}

// EntryForDate returns the entry for the date, creating it on first query.
// A new entry carries forward the previous calendar day's age, weight and
// activity level (or the defaults when no previous entry exists) and gets a
// target computed under the current method, with zero consumed calories.
func (p *UserProfile) EntryForDate(date time.Time) *ProfileEntry {
	key := FormatDate(date)
	if entry, ok := p.Entries[key]; ok {
		return entry
	}

	age := DefaultAge
	weight := DefaultWeight
	level := DefaultActivityLevel
	if prev, ok := p.Entries[FormatDate(date.AddDate(0, 0, -1))]; ok {
		age = prev.Age
		weight = prev.Weight
		level = prev.ActivityLevel
	}

	entry := &ProfileEntry{
		Age:            age,
		Weight:         weight,
		ActivityLevel:  level,
		TargetCalories: p.TargetCalories(age, weight, level),
	}
	p.Entries[key] = entry
	return entry
}

// UpdateForDate overwrites the date's metrics and recomputes its target with
// the current calorie method. The boolean reports whether an entry was
// available to update; entry creation never fails today, but the contract
// allows it.
func (p *UserProfile) UpdateForDate(date time.Time, age int, weight float64, level ActivityLevel) bool {
	entry := p.EntryForDate(date)
	if entry == nil {
		return false
	}
	entry.Age = age
	entry.Weight = weight
	entry.ActivityLevel = level
	entry.TargetCalories = p.TargetCalories(age, weight, level)
	entry.UpdateMade = true
	return true
}

// RecordConsumedCalories adds a signed delta to the date's consumed total.
// Negative deltas reverse previously recorded consumption.
func (p *UserProfile) RecordConsumedCalories(date time.Time, delta float64) {
	entry := p.EntryForDate(date)
	entry.ConsumedCalories += delta
}

// CalorieInfoForDate reports the date's target, consumption and remainder.
func (p *UserProfile) CalorieInfoForDate(date time.Time) CalorieInfo {
	entry := p.EntryForDate(date)
	return CalorieInfo{
		TargetCalories:   entry.TargetCalories,
		ConsumedCalories: entry.ConsumedCalories,
		Difference:       entry.TargetCalories - entry.ConsumedCalories,
	}
}

// SortedEntryDates returns the entry keys in ascending date order. File
// writes iterate this order so the persisted form is deterministic.
func (p *UserProfile) SortedEntryDates() []string {
	dates := make([]string, 0, len(p.Entries))
	for d := range p.Entries {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
