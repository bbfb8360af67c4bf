package service

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nutritrack/backend/internal/models"
)

var ErrNoProfile = errors.New("no profile exists")

// ProfileService owns the user profile and its flat-file persistence. The
// profile is nil until Create or a successful Load. Not safe for concurrent
// use.
type ProfileService struct {
	path    string
	profile *models.UserProfile
}

// NewProfileService creates a service persisted at path with no profile yet.
func NewProfileService(path string) *ProfileService {
	return &ProfileService{path: path}
}

// Profile returns the current profile, or nil when none exists.
func (s *ProfileService) Profile() *models.UserProfile {
	return s.profile
}

// Create replaces any current profile with a fresh one.
func (s *ProfileService) Create(name, gender string, height float64) *models.UserProfile {
	s.profile = models.NewUserProfile(name, gender, height)
	return s.profile
}

// SetCalorieMethod switches the active formula. Existing entries keep their
// stored targets; targets recompute the next time an entry is created or
// updated.
func (s *ProfileService) SetCalorieMethod(method models.CalorieMethod) error {
	if s.profile == nil {
		return ErrNoProfile
	}
	s.profile.CalorieMethod = method
	return nil
}

// EntryForDate returns the date's entry, creating it with carry-forward
// semantics when absent.
func (s *ProfileService) EntryForDate(date time.Time) (*models.ProfileEntry, error) {
	if s.profile == nil {
		return nil, ErrNoProfile
	}
	return s.profile.EntryForDate(date), nil
}

// UpdateForDate overwrites the date's metrics and recomputes its target.
func (s *ProfileService) UpdateForDate(date time.Time, age int, weight float64, level models.ActivityLevel) error {
	if s.profile == nil {
		return ErrNoProfile
	}
	if !s.profile.UpdateForDate(date, age, weight, level) {
		return fmt.Errorf("updating entry for %s: %w", models.FormatDate(date), ErrNoProfile)
	}
	return nil
}

// RecordConsumedCalories adds a signed delta to the date's consumed total.
func (s *ProfileService) RecordConsumedCalories(date time.Time, delta float64) error {
	if s.profile == nil {
		return ErrNoProfile
	}
	s.profile.RecordConsumedCalories(date, delta)
	return nil
}

// CalorieInfoForDate reports the date's target, consumption and remainder.
func (s *ProfileService) CalorieInfoForDate(date time.Time) (models.CalorieInfo, error) {
	if s.profile == nil {
		return models.CalorieInfo{}, ErrNoProfile
	}
	return s.profile.CalorieInfoForDate(date), nil
}

// Save writes the profile as key:value lines: the four header fields, then
// one block per entry in ascending date order.
func (s *ProfileService) Save() error {
	if s.profile == nil {
		return ErrNoProfile
	}
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "Name:%s\n", s.profile.Name)
	fmt.Fprintf(w, "Gender:%s\n", s.profile.Gender)
	fmt.Fprintf(w, "Height:%s\n", formatFloat(s.profile.Height))
	fmt.Fprintf(w, "CalorieMethod:%s\n", s.profile.CalorieMethod)
	for _, date := range s.profile.SortedEntryDates() {
		entry := s.profile.Entries[date]
		fmt.Fprintf(w, "EntryDate:%s\n", date)
		fmt.Fprintf(w, "Age:%d\n", entry.Age)
		fmt.Fprintf(w, "Weight:%s\n", formatFloat(entry.Weight))
		fmt.Fprintf(w, "ActivityLevel:%s\n", entry.ActivityLevel)
		fmt.Fprintf(w, "TargetCalories:%s\n", formatFloat(entry.TargetCalories))
		fmt.Fprintf(w, "ConsumedCalories:%s\n", formatFloat(entry.ConsumedCalories))
		fmt.Fprintf(w, "UpdateMade:%t\n", entry.UpdateMade)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// Load reads the profile file, scanning lines sequentially and attaching
// each entry field to the most recently seen EntryDate; entry fields before
// any EntryDate are dropped silently. An absent file leaves the service with
// no profile and is not an error.
func (s *ProfileService) Load() error {
	lines, err := readLines(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading profile: %w", err)
	}

	var profile *models.UserProfile
	var currentEntry *models.ProfileEntry

	for _, line := range lines {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]
		switch key {
		case "Name":
			profile = models.NewUserProfile(value, "", 0)
		case "Gender":
			if profile != nil {
				profile.Gender = value
			}
		case "Height":
			if profile != nil {
				if profile.Height, err = strconv.ParseFloat(value, 64); err != nil {
					return fmt.Errorf("loading profile: height: %w", err)
				}
			}
		case "CalorieMethod":
			if profile != nil {
				method, err := models.ParseCalorieMethod(value)
				if err != nil {
					return fmt.Errorf("loading profile: %w", err)
				}
				profile.CalorieMethod = method
			}
		case "EntryDate":
			if profile != nil {
				currentEntry = &models.ProfileEntry{}
				profile.Entries[value] = currentEntry
			}
		case "Age":
			if currentEntry != nil {
				if currentEntry.Age, err = strconv.Atoi(value); err != nil {
					return fmt.Errorf("loading profile: age: %w", err)
				}
			}
		case "Weight":
			if currentEntry != nil {
				if currentEntry.Weight, err = strconv.ParseFloat(value, 64); err != nil {
					return fmt.Errorf("loading profile: weight: %w", err)
				}
			}
		case "ActivityLevel":
			if currentEntry != nil {
				level, err := models.ParseActivityLevel(value)
				if err != nil {
					return fmt.Errorf("loading profile: %w", err)
				}
				currentEntry.ActivityLevel = level
			}
		case "TargetCalories":
			if currentEntry != nil {
				if currentEntry.TargetCalories, err = strconv.ParseFloat(value, 64); err != nil {
					return fmt.Errorf("loading profile: target calories: %w", err)
				}
			}
		case "ConsumedCalories":
			if currentEntry != nil {
				if currentEntry.ConsumedCalories, err = strconv.ParseFloat(value, 64); err != nil {
					return fmt.Errorf("loading profile: consumed calories: %w", err)
				}
			}
		case "UpdateMade":
			if currentEntry != nil {
				currentEntry.UpdateMade = value == "true"
			}
		}
	}

	s.profile = profile
	return nil
}
