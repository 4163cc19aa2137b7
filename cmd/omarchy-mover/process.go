package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mover "omarchy-mover"
	"omarchy-mover/ui"
)

const (
	modeAuto   = "auto"
	modeManual = "manual"
)

// processor drives one batch of images through detection, confirmation, and
// the move or copy step.
type processor struct {
	cfg      *mover.Config
	settings mover.Settings
	mode     string
	copyMode bool
}

// run processes the batch and prints the summary. Returns the exit code.
func (p *processor) run(images []string) int {
	if p.cfg.DryRun {
		fmt.Println("\n[DRY RUN - no files will be moved]")
	}
	fmt.Printf("\nProcessing %d image(s)...\n\n", len(images))

	var results []mover.Result
	success, failed, skipped := 0, 0, 0

	for i, path := range images {
		fmt.Printf("[%d/%d] %s\n", i+1, len(images), filepath.Base(path))

		theme, decision, err := p.selectTheme(path)
		if errors.Is(err, ui.ErrInterrupted) {
			fmt.Println("\nCancelled by user")
			skipped += len(images) - i
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if theme == "" {
			fmt.Print("   ⊘ Skipped (no theme selected)\n\n")
			skipped++
			continue
		}

		dest, err := p.place(path, theme)
		switch {
		case errors.Is(err, mover.ErrDuplicate):
			fmt.Printf("   ⊘ Skipped: already in %s\n\n", theme)
			skipped++
		case err != nil:
			fmt.Printf("   ✗ %v\n\n", err)
			failed++
		default:
			suffix := ""
			if p.copyMode {
				suffix = " (copied)"
			}
			if p.cfg.DryRun {
				suffix = " (dry-run)"
			}
			fmt.Printf("   ✓ %s → %s/%s\n\n", filepath.Base(dest), theme, "backgrounds"+suffix)
			success++
			if decision != nil {
				results = append(results, mover.Result{
					Theme:      theme,
					Confidence: decision.Analysis.Confidence,
					Color:      decision.Analysis.Color,
				})
			}
		}
	}

	fmt.Printf("Done: %d processed, %d skipped, %d failed\n", success, skipped, failed)
	if len(results) > 1 {
		fmt.Println()
		fmt.Print(mover.Report(results))
	}
	if success > 0 && !p.cfg.DryRun && !p.copyMode {
		fmt.Println("\nTo undo, run: omarchy-mover -undo")
	}
	return 0
}

// selectTheme determines the destination theme for one image. In auto mode
// it runs detection, applies the auto-confirm policy, and falls back to the
// manual picker on a rejected suggestion, recording the override as a
// correction. The returned decision is nil when no analysis happened.
func (p *processor) selectTheme(path string) (string, *mover.Decision, error) {
	if p.mode == modeManual {
		theme, err := p.manualTheme()
		return theme, nil, err
	}

	decision := p.cfg.Decide(path)
	if decision == nil {
		fmt.Println("   Could not analyze image, falling back to manual selection")
		theme, err := p.manualTheme()
		return theme, nil, err
	}

	note := ""
	if decision.Learned {
		note = " (learned)"
	}
	fmt.Printf("   %s Detected: %s%s | RGB %s | distance %.1f\n",
		decision.Analysis.Confidence.Symbol(), decision.Theme, note,
		decision.Analysis.Color, decision.Analysis.Distance)

	if p.autoConfirm(decision) {
		fmt.Println("   Auto-confirmed (high confidence)")
		return decision.Theme, decision, nil
	}

	ok, err := ui.Confirm(
		fmt.Sprintf("[%s] Use theme %q?", filepath.Base(path), decision.Theme),
		"Yes, use this theme",
		"No, pick a different theme",
	)
	if err != nil {
		return "", nil, err
	}
	if ok {
		return decision.Theme, decision, nil
	}

	theme, err := p.manualTheme()
	if err != nil || theme == "" {
		return "", nil, err
	}
	if p.cfg.Learner != nil {
		p.cfg.Learner.RecordCorrection(decision.Analysis.Color, decision.Theme, theme)
	}
	return theme, decision, nil
}

// autoConfirm applies the config policy for accepting confident matches
// without asking.
func (p *processor) autoConfirm(d *mover.Decision) bool {
	return p.settings.AutoConfirmHighConfidence &&
		d.Analysis.Confidence == mover.ConfidenceHigh &&
		d.Analysis.Distance < p.settings.ConfidenceThreshold
}

// manualTheme lets the user pick from the palette. Empty means skipped.
func (p *processor) manualTheme() (string, error) {
	theme, err := ui.SelectOne(p.cfg.Palette.Names(), "Select theme: ")
	if err != nil {
		return "", err
	}
	if !p.cfg.Palette.Has(theme) {
		return "", nil
	}
	return theme, nil
}

func (p *processor) place(path, theme string) (string, error) {
	if p.copyMode {
		return p.cfg.Copy(path, theme)
	}
	return p.cfg.Move(path, theme)
}
