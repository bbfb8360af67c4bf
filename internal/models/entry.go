package models

import "time"

// LogEntry is one logged instance of eating a food: which food (by catalog
// id), how many servings, on which calendar date.
type LogEntry struct {
	FoodID   string    `json:"food_id"`
	Servings float64   `json:"servings"`
	Date     time.Time `json:"date"`
}

// Equal reports whether two entries describe the same consumption. Entries
// compare by food id, servings and date; this is the identity used when
// removing an entry from the log.
func (e LogEntry) Equal(other LogEntry) bool {
	return e.FoodID == other.FoodID &&
		e.Servings == other.Servings &&
		FormatDate(e.Date) == FormatDate(other.Date)
}

// DayEntries groups one date's log entries in insertion order.
type DayEntries struct {
	Date    time.Time  `json:"date"`
	Entries []LogEntry `json:"entries"`
}
