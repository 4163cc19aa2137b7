package mover

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Result is one processed image's outcome, collected for the batch report.
type Result struct {
	Theme      string
	Confidence Confidence
	Color      Color
}

const reportWidth = 60

var (
	reportTitleStyle = lipgloss.NewStyle().Bold(true)
	reportRuleStyle  = lipgloss.NewStyle().Faint(true)
	reportBarStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	confidenceStyles = map[Confidence]lipgloss.Style{
		ConfidenceHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		ConfidenceMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		ConfidenceLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}

	confidenceMarks = map[Confidence]string{
		ConfidenceHigh:   "✓",
		ConfidenceMedium: "~",
		ConfidenceLow:    "?",
	}
)

// Swatch renders a small block in the color itself, for terminal output.
func Swatch(c Color) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}

// Report renders the end-of-batch statistics block: theme distribution with
// a swatch of each theme's average matched color, then the confidence
// histogram.
func Report(results []Result) string {
	if len(results) == 0 {
		return "No images processed"
	}

	themeCounts := make(map[string]int)
	themeSums := make(map[string][3]uint64)
	confCounts := make(map[Confidence]int)
	for _, r := range results {
		themeCounts[r.Theme]++
		s := themeSums[r.Theme]
		s[0] += uint64(r.Color.R)
		s[1] += uint64(r.Color.G)
		s[2] += uint64(r.Color.B)
		themeSums[r.Theme] = s
		confCounts[r.Confidence]++
	}

	themes := make([]string, 0, len(themeCounts))
	for theme := range themeCounts {
		themes = append(themes, theme)
	}
	// Busiest themes first; names break ties so output is stable.
	sort.Slice(themes, func(i, j int) bool {
		if themeCounts[themes[i]] != themeCounts[themes[j]] {
			return themeCounts[themes[i]] > themeCounts[themes[j]]
		}
		return themes[i] < themes[j]
	})

	total := len(results)
	rule := reportRuleStyle.Render(strings.Repeat("=", reportWidth))
	thinRule := reportRuleStyle.Render(strings.Repeat("-", reportWidth))

	var b strings.Builder
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, reportTitleStyle.Render("PROCESSING STATISTICS"))
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "\nTotal images processed: %d\n", total)

	fmt.Fprintln(&b, "\nTHEME DISTRIBUTION:")
	fmt.Fprintln(&b, thinRule)
	for _, theme := range themes {
		count := themeCounts[theme]
		s := themeSums[theme]
		avg := Color{
			R: uint8(s[0] / uint64(count)),
			G: uint8(s[1] / uint64(count)),
			B: uint8(s[2] / uint64(count)),
		}
		pct := float64(count) / float64(total) * 100
		bar := reportBarStyle.Render(strings.Repeat("█", int(pct/2)))
		fmt.Fprintf(&b, "  %s %-15s %3d (%5.1f%%) %s\n", Swatch(avg), theme, count, pct, bar)
	}

	fmt.Fprintln(&b, "\nCONFIDENCE LEVELS:")
	fmt.Fprintln(&b, thinRule)
	for _, conf := range []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow} {
		count := confCounts[conf]
		if count == 0 {
			continue
		}
		pct := float64(count) / float64(total) * 100
		label := confidenceStyles[conf].Render(fmt.Sprintf("%s %-7s", confidenceMarks[conf], conf))
		fmt.Fprintf(&b, "  %s: %3d (%5.1f%%)\n", label, count, pct)
	}

	fmt.Fprintln(&b, rule)
	return b.String()
}

// FormatLearnStats renders the learner's summary for the stats command.
func FormatLearnStats(stats LearnStats) string {
	var b strings.Builder
	fmt.Fprintln(&b, reportTitleStyle.Render("Learning statistics"))
	fmt.Fprintf(&b, "  Total corrections: %d\n", stats.Total)
	if stats.Total == 0 {
		fmt.Fprintln(&b, "  Nothing learned yet. Corrections are recorded when you override a suggestion.")
		return b.String()
	}

	themes := make([]string, 0, len(stats.ByTheme))
	for theme := range stats.ByTheme {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	fmt.Fprintln(&b, "\n  By theme:")
	for _, theme := range themes {
		fmt.Fprintf(&b, "    %-15s %d\n", theme, stats.ByTheme[theme])
	}

	fmt.Fprintln(&b, "\n  Recent:")
	for _, c := range stats.Recent {
		fmt.Fprintf(&b, "    [%s] %s -> %s %s\n",
			c.Timestamp.Format("2006-01-02 15:04"), c.Suggested, c.Actual, c.Color)
	}
	return b.String()
}

// FormatSize renders a byte count the way the browser lists it.
func FormatSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%dB", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	case n < 1<<30:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%.1fGB", float64(n)/(1<<30))
	}
}
