package mover

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// learnRadius is the maximum weighted distance at which a past correction
// applies to a new color. Deliberately a separate knob from the confidence
// thresholds even though the values coincide today.
const learnRadius = 20.0

// recentCorrections caps the Recent list in learner stats.
const recentCorrections = 5

// Correction records one user override of a detected theme.
type Correction struct {
	Color     Color     `json:"avg_color"`
	Suggested string    `json:"suggested_theme"`
	Actual    string    `json:"actual_theme"`
	Timestamp Timestamp `json:"timestamp"`
}

// Timestamp is a time.Time with tolerant JSON decoding: correction files
// written by earlier releases carry naive ISO 8601 stamps without a zone.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// CorrectionStore abstracts correction persistence so the learner can be
// exercised against an in-memory double.
type CorrectionStore interface {
	Load() ([]Correction, error)
	Save([]Correction) error
}

// Learner owns the correction sequence: it records user overrides and
// replays them when a familiar mistake shows up again.
type Learner struct {
	store       CorrectionStore
	corrections []Correction
}

// NewLearner loads past corrections from store. A failed load degrades to an
// empty set with a warning; learning is never a reason to stop sorting.
func NewLearner(store CorrectionStore) *Learner {
	l := &Learner{store: store}
	corrections, err := store.Load()
	if err != nil {
		slog.Warn("mover: cannot load corrections, starting empty", "error", err.Error())
		return l
	}
	l.corrections = corrections
	return l
}

// Corrections returns a copy of the recorded sequence, oldest first.
func (l *Learner) Corrections() []Correction {
	return append([]Correction(nil), l.corrections...)
}

// Len reports the number of recorded corrections.
func (l *Learner) Len() int {
	return len(l.corrections)
}

// RecordCorrection stores a user override of a suggestion. Confirming the
// suggestion is not a correction: suggested == actual is a no-op and writes
// nothing.
func (l *Learner) RecordCorrection(c Color, suggested, actual string) {
	if suggested == actual {
		return
	}
	l.corrections = append(l.corrections, Correction{
		Color:     c,
		Suggested: suggested,
		Actual:    actual,
		Timestamp: Timestamp{time.Now()},
	})
	l.persist()
}

// LearnedTheme returns the correction-derived theme for c, if any. Among
// corrections within learnRadius the nearest wins, and its override applies
// only when its recorded suggestion matches the current one: a nearby color
// corrected from a different mistake changes nothing.
func (l *Learner) LearnedTheme(c Color, suggested string) (string, bool) {
	var nearest *Correction
	nearestDist := learnRadius
	for i := range l.corrections {
		if d := Distance(c, l.corrections[i].Color); d < nearestDist {
			nearest = &l.corrections[i]
			nearestDist = d
		}
	}
	if nearest == nil || nearest.Suggested != suggested {
		return "", false
	}
	return nearest.Actual, true
}

// AdjustDetection returns the learned override for c, or the original
// suggestion when no correction applies.
func (l *Learner) AdjustDetection(c Color, suggested string) string {
	if learned, ok := l.LearnedTheme(c, suggested); ok {
		return learned
	}
	return suggested
}

// Clear drops every correction, in memory and in the store.
func (l *Learner) Clear() error {
	l.corrections = nil
	return l.store.Save(nil)
}

// Export writes the correction sequence to path in the store's document
// format, so an export can be re-imported or dropped in as a store file.
func (l *Learner) Export(path string) error {
	return writeCorrectionsFile(path, l.corrections)
}

// Import loads corrections from path. With merge set, entries duplicating an
// existing (color, suggested, actual) triple are dropped and the rest are
// appended; without it the imported sequence replaces the current one.
// A malformed file leaves the in-memory state untouched.
func (l *Learner) Import(path string, merge bool) error {
	imported, err := readCorrectionsFile(path)
	if err != nil {
		return err
	}

	if !merge {
		l.corrections = imported
		l.persist()
		return nil
	}
	l.mergeCorrections(imported)
	return nil
}

// correctionKey identifies a correction for duplicate detection. Two entries
// match only when color, suggestion, and chosen theme all agree.
type correctionKey struct {
	color     Color
	suggested string
	actual    string
}

// mergeCorrections appends entries whose key is not already present,
// deduplicating within the incoming batch too, then persists.
func (l *Learner) mergeCorrections(incoming []Correction) {
	seen := make(map[correctionKey]bool, len(l.corrections))
	for _, c := range l.corrections {
		seen[correctionKey{c.Color, c.Suggested, c.Actual}] = true
	}
	for _, c := range incoming {
		k := correctionKey{c.Color, c.Suggested, c.Actual}
		if seen[k] {
			continue
		}
		seen[k] = true
		l.corrections = append(l.corrections, c)
	}
	l.persist()
}

// LearnStats summarizes the correction history for reporting.
type LearnStats struct {
	Total   int
	ByTheme map[string]int // corrections per chosen theme
	Recent  []Correction   // newest first, at most recentCorrections
}

// Stats tallies the recorded corrections.
func (l *Learner) Stats() LearnStats {
	stats := LearnStats{Total: len(l.corrections), ByTheme: make(map[string]int)}
	for _, c := range l.corrections {
		stats.ByTheme[c.Actual]++
	}

	recent := append([]Correction(nil), l.corrections...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Timestamp.After(recent[j].Timestamp.Time)
	})
	if len(recent) > recentCorrections {
		recent = recent[:recentCorrections]
	}
	stats.Recent = recent
	return stats
}

// persist saves the whole sequence. On failure the in-memory state stays
// valid for the rest of the session, so corrections still apply.
func (l *Learner) persist() {
	if err := l.store.Save(l.corrections); err != nil {
		slog.Warn("mover: cannot save corrections", "error", err.Error())
	}
}
