package mover

import (
	"strings"
	"testing"
)

func TestReportEmpty(t *testing.T) {
	t.Parallel()

	if got := Report(nil); got != "No images processed" {
		t.Errorf("Report(nil) = %q, want %q", got, "No images processed")
	}
}

func TestReport(t *testing.T) {
	t.Parallel()

	results := []Result{
		{Theme: "nord", Confidence: ConfidenceHigh, Color: Color{46, 52, 64}},
		{Theme: "nord", Confidence: ConfidenceMedium, Color: Color{48, 54, 66}},
		{Theme: "gruvbox", Confidence: ConfidenceHigh, Color: Color{40, 40, 40}},
		{Theme: "everforest", Confidence: ConfidenceLow, Color: Color{43, 51, 57}},
	}
	got := Report(results)

	// Styling depends on the terminal, so assert on content only.
	for _, want := range []string{
		"PROCESSING STATISTICS",
		"Total images processed: 4",
		"THEME DISTRIBUTION:",
		"CONFIDENCE LEVELS:",
		"nord",
		"gruvbox",
		"everforest",
		"( 50.0%)",
		"( 25.0%)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Report() missing %q in:\n%s", want, got)
		}
	}

	// nord has the most hits and must lead the distribution.
	if strings.Index(got, "nord") > strings.Index(got, "everforest") {
		t.Error("Report() does not list the busiest theme first")
	}
}

func TestReportSkipsAbsentConfidenceLevels(t *testing.T) {
	t.Parallel()

	got := Report([]Result{{Theme: "nord", Confidence: ConfidenceHigh, Color: Color{46, 52, 64}}})
	if strings.Contains(got, "low") {
		t.Errorf("Report() mentions an absent confidence level:\n%s", got)
	}
	if !strings.Contains(got, "high") {
		t.Errorf("Report() missing the present confidence level:\n%s", got)
	}
}

func TestFormatLearnStats(t *testing.T) {
	t.Parallel()

	stats := LearnStats{
		Total:   3,
		ByTheme: map[string]int{"nord": 2, "gruvbox": 1},
		Recent: []Correction{
			{Color: Color{46, 52, 64}, Suggested: "everforest", Actual: "nord", Timestamp: ts(3, 10)},
		},
	}
	got := FormatLearnStats(stats)

	for _, want := range []string{
		"Total corrections: 3",
		"By theme:",
		"gruvbox",
		"nord",
		"Recent:",
		"everforest -> nord",
		"(46, 52, 64)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatLearnStats() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatLearnStatsEmpty(t *testing.T) {
	t.Parallel()

	got := FormatLearnStats(LearnStats{})
	if !strings.Contains(got, "Total corrections: 0") {
		t.Errorf("FormatLearnStats(empty) = %q", got)
	}
	if !strings.Contains(got, "Nothing learned yet") {
		t.Errorf("FormatLearnStats(empty) missing the hint: %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    int64
		want string
	}{
		{name: "bytes", n: 512, want: "512B"},
		{name: "kilobytes", n: 2048, want: "2.0KB"},
		{name: "megabytes", n: 5 << 20, want: "5.0MB"},
		{name: "gigabytes", n: 3 << 30, want: "3.0GB"},
		{name: "boundary", n: 1023, want: "1023B"},
		{name: "zero", n: 0, want: "0B"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatSize(tt.n); got != tt.want {
				t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}
