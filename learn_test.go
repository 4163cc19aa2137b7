package mover

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// memStore is an in-memory CorrectionStore test double.
type memStore struct {
	corrections []Correction
	saves       int
	loadErr     error
	saveErr     error
}

func (m *memStore) Load() ([]Correction, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]Correction(nil), m.corrections...), nil
}

func (m *memStore) Save(corrections []Correction) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.corrections = append([]Correction(nil), corrections...)
	return nil
}

func ts(day, hour int) Timestamp {
	return Timestamp{time.Date(2025, 8, day, hour, 0, 0, 0, time.UTC)}
}

func TestRecordCorrection(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	l := NewLearner(store)
	l.RecordCorrection(Color{46, 52, 64}, "nord", "gruvbox")

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	c := l.Corrections()[0]
	if c.Suggested != "nord" || c.Actual != "gruvbox" || c.Color != (Color{46, 52, 64}) {
		t.Errorf("recorded correction = %+v", c)
	}
	if c.Timestamp.IsZero() {
		t.Error("correction has zero timestamp")
	}
	if store.saves != 1 {
		t.Errorf("store saved %d times, want 1", store.saves)
	}
}

func TestRecordCorrectionConfirmIsNoOp(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	l := NewLearner(store)
	l.RecordCorrection(Color{46, 52, 64}, "nord", "nord")

	if l.Len() != 0 {
		t.Errorf("Len() = %d after confirming a suggestion, want 0", l.Len())
	}
	if store.saves != 0 {
		t.Errorf("store saved %d times for a no-op, want 0", store.saves)
	}
}

func TestLearnedTheme(t *testing.T) {
	t.Parallel()

	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{10, 10, 10}, "nord", "gruvbox")

	tests := []struct {
		name      string
		color     Color
		suggested string
		want      string
		wantOK    bool
	}{
		{
			name:      "same color and suggestion overrides",
			color:     Color{10, 10, 10},
			suggested: "nord",
			want:      "gruvbox",
			wantOK:    true,
		},
		{
			name:      "nearby color overrides",
			color:     Color{12, 12, 12},
			suggested: "nord",
			wantOK:    true,
			want:      "gruvbox",
		},
		{
			name:      "different suggestion stays untouched",
			color:     Color{10, 10, 10},
			suggested: "tokyo-night",
			wantOK:    false,
		},
		{
			name:      "far color stays untouched",
			color:     Color{200, 200, 200},
			suggested: "nord",
			wantOK:    false,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := l.LearnedTheme(tc.color, tc.suggested)
			if ok != tc.wantOK {
				t.Fatalf("LearnedTheme(%v, %q) ok = %v, want %v", tc.color, tc.suggested, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Errorf("LearnedTheme(%v, %q) = %q, want %q", tc.color, tc.suggested, got, tc.want)
			}
		})
	}
}

func TestLearnedThemeRadiusBoundary(t *testing.T) {
	t.Parallel()

	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{0, 0, 0}, "nord", "gruvbox")

	// Weighted distance on green alone is 0.59 per step: 33 steps land just
	// inside the radius, 34 just outside.
	if _, ok := l.LearnedTheme(Color{0, 33, 0}, "nord"); !ok {
		t.Error("correction at distance 19.47 did not apply, want inside radius")
	}
	if _, ok := l.LearnedTheme(Color{0, 34, 0}, "nord"); ok {
		t.Error("correction at distance 20.06 applied, want outside radius")
	}
}

func TestLearnedThemeNearestWins(t *testing.T) {
	t.Parallel()

	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{0, 25, 0}, "nord", "kanagawa") // distance 14.75
	l.RecordCorrection(Color{0, 8, 0}, "nord", "gruvbox")   // distance 4.72

	got, ok := l.LearnedTheme(Color{0, 0, 0}, "nord")
	if !ok {
		t.Fatal("LearnedTheme() found no correction")
	}
	if got != "gruvbox" {
		t.Errorf("LearnedTheme() = %q, want %q from the nearest correction", got, "gruvbox")
	}
}

func TestLearnedThemeNearestDecides(t *testing.T) {
	t.Parallel()

	// The nearest in-radius correction decides alone: when its suggestion
	// does not match, a farther matching correction never applies.
	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{0, 5, 0}, "everforest", "ristretto") // distance 2.95
	l.RecordCorrection(Color{0, 15, 0}, "nord", "gruvbox")        // distance 8.85

	if got, ok := l.LearnedTheme(Color{0, 0, 0}, "nord"); ok {
		t.Errorf("LearnedTheme() = %q, want no override", got)
	}
}

func TestLearnerLoadFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{loadErr: errors.New("disk on fire")}
	l := NewLearner(store)
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after failed load, want 0", l.Len())
	}

	// Still usable after the failed load.
	l.RecordCorrection(Color{1, 2, 3}, "nord", "gruvbox")
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestLearnerSaveFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{saveErr: errors.New("read-only fs")}
	l := NewLearner(store)
	l.RecordCorrection(Color{1, 2, 3}, "nord", "gruvbox")

	// The in-memory sequence survives a failed save and keeps applying.
	if l.Len() != 1 {
		t.Fatalf("Len() = %d after failed save, want 1", l.Len())
	}
	if _, ok := l.LearnedTheme(Color{1, 2, 3}, "nord"); !ok {
		t.Error("correction not applied after failed save")
	}
}

func TestLearnerClear(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	l := NewLearner(store)
	l.RecordCorrection(Color{1, 2, 3}, "nord", "gruvbox")

	if err := l.Clear(); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", l.Len())
	}
	if len(store.corrections) != 0 {
		t.Errorf("store still holds %d corrections after Clear", len(store.corrections))
	}
}

func TestLearnerStats(t *testing.T) {
	t.Parallel()

	store := &memStore{corrections: []Correction{
		{Color: Color{1, 1, 1}, Suggested: "nord", Actual: "gruvbox", Timestamp: ts(1, 9)},
		{Color: Color{2, 2, 2}, Suggested: "nord", Actual: "gruvbox", Timestamp: ts(2, 9)},
		{Color: Color{3, 3, 3}, Suggested: "kanagawa", Actual: "ristretto", Timestamp: ts(3, 9)},
		{Color: Color{4, 4, 4}, Suggested: "nord", Actual: "gruvbox", Timestamp: ts(4, 9)},
		{Color: Color{5, 5, 5}, Suggested: "nord", Actual: "everforest", Timestamp: ts(5, 9)},
		{Color: Color{6, 6, 6}, Suggested: "nord", Actual: "gruvbox", Timestamp: ts(6, 9)},
		{Color: Color{7, 7, 7}, Suggested: "nord", Actual: "gruvbox", Timestamp: ts(7, 9)},
	}}
	l := NewLearner(store)

	stats := l.Stats()
	if stats.Total != 7 {
		t.Errorf("Total = %d, want 7", stats.Total)
	}
	if stats.ByTheme["gruvbox"] != 5 || stats.ByTheme["ristretto"] != 1 || stats.ByTheme["everforest"] != 1 {
		t.Errorf("ByTheme = %v", stats.ByTheme)
	}
	if len(stats.Recent) != 5 {
		t.Fatalf("Recent has %d entries, want 5", len(stats.Recent))
	}
	if got := stats.Recent[0].Color; got != (Color{7, 7, 7}) {
		t.Errorf("Recent[0] = %v, want the newest correction", got)
	}
	if got := stats.Recent[4].Color; got != (Color{3, 3, 3}) {
		t.Errorf("Recent[4] = %v, want the fifth-newest correction", got)
	}
}

func TestImportMerge(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "incoming.json")

	source := NewLearner(&memStore{})
	source.RecordCorrection(Color{10, 10, 10}, "nord", "gruvbox")  // duplicate of existing
	source.RecordCorrection(Color{10, 10, 10}, "nord", "kanagawa") // same color, new actual
	source.RecordCorrection(Color{20, 20, 20}, "nord", "gruvbox")  // new color
	if err := source.Export(path); err != nil {
		t.Fatalf("Export() = %v", err)
	}

	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{10, 10, 10}, "nord", "gruvbox")
	if err := l.Import(path, true); err != nil {
		t.Fatalf("Import() = %v", err)
	}

	if l.Len() != 3 {
		t.Errorf("Len() = %d after merge, want 3 (one duplicate dropped)", l.Len())
	}
}

func TestImportReplace(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "incoming.json")

	source := NewLearner(&memStore{})
	source.RecordCorrection(Color{1, 1, 1}, "nord", "gruvbox")
	if err := source.Export(path); err != nil {
		t.Fatalf("Export() = %v", err)
	}

	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{2, 2, 2}, "nord", "kanagawa")
	l.RecordCorrection(Color{3, 3, 3}, "nord", "ristretto")
	if err := l.Import(path, false); err != nil {
		t.Fatalf("Import() = %v", err)
	}

	if l.Len() != 1 {
		t.Fatalf("Len() = %d after replace, want 1", l.Len())
	}
	if got := l.Corrections()[0].Color; got != (Color{1, 1, 1}) {
		t.Errorf("surviving correction = %v, want the imported one", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "export.json")

	original := []Correction{
		{Color: Color{46, 52, 64}, Suggested: "nord", Actual: "gruvbox",
			Timestamp: Timestamp{time.Date(2025, 8, 1, 10, 0, 0, 123456789, time.UTC)}},
		{Color: Color{0, 160, 96}, Suggested: "osaka-jade", Actual: "everforest",
			Timestamp: Timestamp{time.Date(2025, 8, 2, 11, 30, 0, 0, time.UTC)}},
	}
	source := NewLearner(&memStore{corrections: original})
	if err := source.Export(path); err != nil {
		t.Fatalf("Export() = %v", err)
	}

	l := NewLearner(&memStore{})
	if err := l.Import(path, false); err != nil {
		t.Fatalf("Import() = %v", err)
	}

	got := l.Corrections()
	if len(got) != len(original) {
		t.Fatalf("round trip kept %d corrections, want %d", len(got), len(original))
	}
	for i := range got {
		if got[i].Color != original[i].Color ||
			got[i].Suggested != original[i].Suggested ||
			got[i].Actual != original[i].Actual {
			t.Errorf("correction %d = %+v, want %+v", i, got[i], original[i])
		}
		if !got[i].Timestamp.Equal(original[i].Timestamp.Time) {
			t.Errorf("correction %d timestamp = %v, want %v", i, got[i].Timestamp, original[i].Timestamp)
		}
	}
}

func TestImportMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.json")
	if err := writeFileAtomic(path, []byte("{broken")); err != nil {
		t.Fatal(err)
	}

	l := NewLearner(&memStore{})
	l.RecordCorrection(Color{1, 1, 1}, "nord", "gruvbox")
	if err := l.Import(path, true); err == nil {
		t.Fatal("Import(garbage) = nil, want error")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d after failed import, want 1 (state untouched)", l.Len())
	}
}

func TestTimestampAcceptsNaiveISO(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339 with zone", `"2025-08-01T10:00:00Z"`, true},
		{"rfc3339 with offset", `"2025-08-01T10:00:00+02:00"`, true},
		{"naive with microseconds", `"2025-08-01T10:00:00.123456"`, true},
		{"naive without fraction", `"2025-08-01T10:00:00"`, true},
		{"not a timestamp", `"yesterday"`, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got Timestamp
			err := got.UnmarshalJSON([]byte(tc.in))
			if tc.ok && err != nil {
				t.Errorf("UnmarshalJSON(%s) = %v, want nil", tc.in, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("UnmarshalJSON(%s) = nil, want error", tc.in)
			}
			if tc.ok && got.IsZero() {
				t.Errorf("UnmarshalJSON(%s) left a zero time", tc.in)
			}
		})
	}
}
