package service

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nutritrack/backend/internal/models"
)

var ErrInvalidServings = errors.New("servings must be positive")

// maxUndoDepth bounds the undo history; the oldest snapshot is dropped when
// the limit is reached.
const maxUndoDepth = 100

// logState maps wire-format dates to that day's entries in insertion order.
type logState map[string][]models.LogEntry

func (s logState) clone() logState {
	copied := make(logState, len(s))
	for date, entries := range s {
		copied[date] = append([]models.LogEntry(nil), entries...)
	}
	return copied
}

// DailyLogService tracks per-date consumption with snapshot-based undo.
// State loads lazily from disk on first access and every mutation persists
// immediately; if a save fails, the in-memory state stays authoritative and
// disk may lag behind. Not safe for concurrent use.
type DailyLogService struct {
	path     string
	entries  logState
	undo     []logState
	interned map[string]string
	loaded   bool
}

// NewDailyLogService creates a log persisted at path. Nothing is read until
// the first operation touches the log.
func NewDailyLogService(path string) *DailyLogService {
	return &DailyLogService{
		path:     path,
		entries:  make(logState),
		interned: make(map[string]string),
	}
}

// intern canonicalizes a food id so repeated ids share one backing string.
// Purely a memory optimization; never observable through the API.
func (s *DailyLogService) intern(id string) string {
	if canonical, ok := s.interned[id]; ok {
		return canonical
	}
	s.interned[id] = id
	return id
}

// AddEntry logs servings of a food on a date. The pre-mutation state is
// snapshotted for undo and the new state saved; a failed save is returned
// but the in-memory mutation is kept.
func (s *DailyLogService) AddEntry(food *models.Food, servings float64, date time.Time) error {
	if food == nil {
		return ErrNilFood
	}
	if servings <= 0 {
		return ErrInvalidServings
	}
	s.ensureLoaded()

	snapshot := s.entries.clone()
	key := models.FormatDate(date)
	s.entries[key] = append(s.entries[key], models.LogEntry{
		FoodID:   s.intern(food.ID),
		Servings: servings,
		Date:     date,
	})
	s.pushUndo(snapshot)

	if err := s.save(); err != nil {
		log.Printf("Error saving daily log: %v", err)
		return err
	}
	return nil
}

// RemoveEntry deletes every entry on the date equal to the given one and
// reports whether any was found. Found removals snapshot for undo and save
// like AddEntry.
func (s *DailyLogService) RemoveEntry(date time.Time, entry models.LogEntry) (bool, error) {
	s.ensureLoaded()

	key := models.FormatDate(date)
	existing, ok := s.entries[key]
	if !ok {
		return false, nil
	}

	snapshot := s.entries.clone()
	kept := existing[:0]
	for _, e := range existing {
		if !e.Equal(entry) {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(existing) {
		return false, nil
	}
	if len(kept) == 0 {
		delete(s.entries, key)
	} else {
		s.entries[key] = kept
	}
	s.pushUndo(snapshot)

	if err := s.save(); err != nil {
		log.Printf("Error saving daily log: %v", err)
		return true, err
	}
	return true, nil
}

// EntriesForDate returns a copy of the date's entries in insertion order.
func (s *DailyLogService) EntriesForDate(date time.Time) []models.LogEntry {
	s.ensureLoaded()
	return append([]models.LogEntry(nil), s.entries[models.FormatDate(date)]...)
}

// AllEntries returns a snapshot of the whole log grouped by date, dates
// ascending.
func (s *DailyLogService) AllEntries() []models.DayEntries {
	s.ensureLoaded()

	dates := make([]string, 0, len(s.entries))
	for d := range s.entries {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	result := make([]models.DayEntries, 0, len(dates))
	for _, d := range dates {
		day, _ := models.ParseDate(d)
		result = append(result, models.DayEntries{
			Date:    day,
			Entries: append([]models.LogEntry(nil), s.entries[d]...),
		})
	}
	return result
}

// UndoLast restores the most recent pre-mutation snapshot and re-persists
// it. A no-op when nothing is left to undo.
func (s *DailyLogService) UndoLast() {
	s.ensureLoaded()
	if len(s.undo) == 0 {
		return
	}
	s.entries = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	if err := s.save(); err != nil {
		log.Printf("Error saving daily log during undo: %v", err)
	}
}

// CanUndo reports whether an undo snapshot is available.
func (s *DailyLogService) CanUndo() bool {
	return len(s.undo) > 0
}

func (s *DailyLogService) pushUndo(snapshot logState) {
	if len(s.undo) == maxUndoDepth {
		s.undo = append(s.undo[:0], s.undo[1:]...)
	}
	s.undo = append(s.undo, snapshot)
}

// ensureLoaded reads the log file on first access. A failed load is reported
// on the diagnostic stream and the log starts empty; it is not retried.
func (s *DailyLogService) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	if err := s.load(); err != nil {
		log.Printf("Error loading daily log: %v", err)
	}
}

// save writes every entry as <date>|<foodId>|<servings>, dates ascending and
// insertion order within a date.
func (s *DailyLogService) save() error {
	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("saving daily log: %w", err)
	}
	defer file.Close()

	dates := make([]string, 0, len(s.entries))
	for d := range s.entries {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	w := bufio.NewWriter(file)
	for _, d := range dates {
		for _, e := range s.entries[d] {
			fmt.Fprintf(w, "%s|%s|%s\n", d, e.FoodID, formatFloat(e.Servings))
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("saving daily log: %w", err)
	}
	return nil
}

// load replaces in-memory state with the file's contents. Lines that do not
// split into exactly three fields or fail to parse are skipped with a
// diagnostic. An absent file is an empty log.
func (s *DailyLogService) load() error {
	lines, err := readLines(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading daily log: %w", err)
	}

	s.entries = make(logState)
	for _, line := range lines {
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			log.Printf("Skipping malformed log line: %q", line)
			continue
		}
		date, err := models.ParseDate(parts[0])
		if err != nil {
			log.Printf("Skipping log line with bad date: %q", line)
			continue
		}
		servings, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			log.Printf("Skipping log line with bad servings: %q", line)
			continue
		}
		key := parts[0]
		s.entries[key] = append(s.entries[key], models.LogEntry{
			FoodID:   s.intern(parts[1]),
			Servings: servings,
			Date:     date,
		})
	}
	return nil
}
