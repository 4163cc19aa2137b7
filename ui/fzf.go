// Package ui implements the interactive terminal layer: fzf-driven menus,
// the directory browser, and image preview and viewing helpers.
package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrInterrupted reports that the user aborted a prompt (ESC or Ctrl-C).
var ErrInterrupted = errors.New("interrupted")

// ErrFzfMissing reports that fzf is not on PATH.
var ErrFzfMissing = errors.New("fzf not installed (pacman -S fzf or apt install fzf)")

// SelectOpts tunes a single fzf invocation.
type SelectOpts struct {
	// Multi allows TAB multi-select with ctrl-a/ctrl-d bindings.
	Multi bool

	// Preview is the fzf --preview command; empty disables the pane.
	Preview string

	// PreviewWindow positions the pane. Defaults to "right:70%:wrap".
	PreviewWindow string
}

// Select presents options through fzf and returns the chosen entries.
// An empty result with nil error means nothing was chosen; ErrInterrupted
// reports an abort. The terminal is handed to fzf for the duration.
func Select(options []string, prompt string, opts SelectOpts) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}
	if _, err := exec.LookPath("fzf"); err != nil {
		return nil, ErrFzfMissing
	}

	args := []string{
		"--prompt", prompt,
		"--height", "100%",
		"--border",
		"--no-sort",
		"--reverse",
		"--info", "inline",
		"--ansi",
	}
	if opts.Multi {
		args = append(args,
			"--multi",
			"--bind", "ctrl-a:select-all",
			"--bind", "ctrl-d:deselect-all",
		)
	}
	if opts.Preview != "" {
		window := opts.PreviewWindow
		if window == "" {
			window = "right:70%:wrap"
		}
		args = append(args, "--preview", opts.Preview, "--preview-window", window)
	}

	cmd := exec.Command("fzf", args...)
	cmd.Stdin = strings.NewReader(strings.Join(options, "\n") + "\n")
	cmd.Stderr = os.Stderr
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// 130 is fzf's abort code (ESC / Ctrl-C); 1 means no match.
			if exitErr.ExitCode() == 130 {
				return nil, ErrInterrupted
			}
			return nil, nil
		}
		return nil, fmt.Errorf("fzf: %w", err)
	}

	var selections []string
	for _, line := range strings.Split(out.String(), "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			selections = append(selections, line)
		}
	}
	return selections, nil
}

// SelectOne is Select for a single choice. Empty string means no choice.
func SelectOne(options []string, prompt string) (string, error) {
	selections, err := Select(options, prompt, SelectOpts{})
	if err != nil {
		return "", err
	}
	if len(selections) == 0 {
		return "", nil
	}
	return selections[0], nil
}

// Confirm asks a yes/no question with custom option labels. The first
// option is the affirmative one.
func Confirm(message, yesText, noText string) (bool, error) {
	if yesText == "" {
		yesText = "Yes"
	}
	if noText == "" {
		noText = "No"
	}
	choice, err := SelectOne([]string{yesText, noText}, message+" ")
	if err != nil {
		return false, err
	}
	return choice == yesText, nil
}
