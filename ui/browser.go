package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mover "omarchy-mover"
)

// Control entries mixed into the browser listing. Everything else is a
// [DIR] or [IMG] line.
const (
	entryDone  = "[DONE]"
	entryClear = "[CLEAR]"
	entryEdit  = "[EDIT]"
	entryUp    = "[UP]  ../"
	separator  = "---"
)

// Browser is the stateful directory walker users pick images from.
type Browser struct {
	Path     string   // current directory
	Selected []string // absolute image paths picked so far

	tool    string
	preview bool
	viewer  *Viewer
}

// NewBrowser starts a browser at startPath (~ expanded). Preview is enabled
// when a terminal image renderer is installed.
func NewBrowser(startPath string) *Browser {
	path := mover.ExpandPath(startPath)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	b := &Browser{Path: path, tool: PreviewTool()}
	b.preview = b.tool != ""
	b.viewer = NewViewer()

	if b.preview {
		fmt.Printf("Image preview enabled (using %s)\n", b.tool)
	} else {
		fmt.Println("Image preview not available. Install chafa for best results: pacman -S chafa")
	}
	return b
}

// Run drives the browse loop until the user finishes or aborts. It returns
// the selected image paths; empty means the user left without processing.
func (b *Browser) Run() ([]string, error) {
	for {
		entries := b.listEntries()
		if len(entries) == 0 {
			fmt.Printf("Empty directory: %s\n", b.Path)
			if !b.goUp() {
				return nil, nil
			}
			continue
		}
		if len(b.Selected) > 0 {
			entries = append([]string{
				fmt.Sprintf("%s Process %d selected image(s)", entryDone, len(b.Selected)),
				entryClear + " Clear selection",
				entryEdit + " View/Edit selected images",
				separator,
			}, entries...)
		}

		count := ""
		if len(b.Selected) > 0 {
			count = fmt.Sprintf(" [%d selected]", len(b.Selected))
		}
		prompt := fmt.Sprintf("%s%s> ", filepath.Base(b.Path), count)

		preview := ""
		if b.preview {
			preview = PreviewCommand(b.Path, b.tool)
		}

		selections, err := Select(entries, prompt, SelectOpts{Multi: true, Preview: preview})
		if errors.Is(err, ErrInterrupted) || (err == nil && len(selections) == 0) {
			done, picked := b.escapeMenu()
			if done {
				return picked, nil
			}
			continue
		}
		if err != nil {
			return nil, err
		}

		switch {
		case hasEntryPrefix(selections, entryDone):
			return b.Selected, nil
		case hasEntryPrefix(selections, entryClear):
			b.clearSelection()
		case hasEntryPrefix(selections, entryEdit):
			b.editSelected()
		default:
			b.apply(selections)
		}
	}
}

// listEntries renders the current directory: subdirectories and images in
// name order, images carrying their size and a ✓ once selected. A parent
// entry leads the list except at the filesystem root or home.
func (b *Browser) listEntries() []string {
	items, err := os.ReadDir(b.Path)
	if err != nil {
		fmt.Printf("Warning: cannot list %s: %v\n", b.Path, err)
		return nil
	}

	selected := make(map[string]bool, len(b.Selected))
	for _, p := range b.Selected {
		selected[p] = true
	}

	var entries []string
	for _, item := range items {
		switch {
		case item.IsDir():
			entries = append(entries, "[DIR] "+item.Name()+"/")
		case mover.IsImagePath(item.Name()):
			mark := ""
			if selected[filepath.Join(b.Path, item.Name())] {
				mark = "✓ "
			}
			size := ""
			if info, err := item.Info(); err == nil {
				size = fmt.Sprintf(" (%s)", mover.FormatSize(info.Size()))
			}
			entries = append(entries, fmt.Sprintf("[IMG] %s%s%s", mark, item.Name(), size))
		}
	}

	home, _ := os.UserHomeDir()
	if b.Path != home && b.Path != "/" {
		entries = append([]string{entryUp}, entries...)
	}
	return entries
}

// apply handles a batch of picked entries: directory entries navigate (first
// one wins), image entries toggle into the selection.
func (b *Browser) apply(selections []string) {
	for _, sel := range selections {
		if sel == separator {
			continue
		}
		name := cleanEntry(sel)
		full := filepath.Join(b.Path, strings.TrimSuffix(name, "/"))

		switch {
		case name == "../":
			b.goUp()
			return
		case strings.HasSuffix(name, "/"):
			if info, err := os.Stat(full); err == nil && info.IsDir() {
				b.Path = full
			}
			return
		case mover.IsImagePath(full):
			if info, err := os.Stat(full); err != nil || info.IsDir() {
				continue
			}
			if b.isSelected(full) {
				fmt.Printf("Already selected: %s\n", filepath.Base(full))
				continue
			}
			b.Selected = append(b.Selected, full)
			fmt.Printf("Added: %s\n", filepath.Base(full))
		}
	}
}

// escapeMenu handles an aborted prompt. With nothing selected the session
// ends; otherwise the user chooses what to do with the pending selection.
func (b *Browser) escapeMenu() (done bool, picked []string) {
	if len(b.Selected) == 0 {
		return true, nil
	}

	actions := []string{
		fmt.Sprintf("Process %d image(s)", len(b.Selected)),
		"View/Edit images",
		"Continue selecting",
		"Clear selection",
		"Exit without processing",
	}
	choice, err := SelectOne(actions, "Action: ")
	if err != nil || choice == "" {
		return false, nil
	}

	switch {
	case strings.HasPrefix(choice, "Process"):
		return true, b.Selected
	case strings.HasPrefix(choice, "View"):
		b.editSelected()
		return false, nil
	case strings.HasPrefix(choice, "Clear"):
		b.clearSelection()
		return false, nil
	case strings.HasPrefix(choice, "Exit"):
		return true, nil
	default:
		return false, nil
	}
}

// editSelected walks the pending selection through the viewer, keeping
// renames in sync with the selection list.
func (b *Browser) editSelected() {
	if len(b.Selected) == 0 {
		return
	}
	fmt.Printf("\nEditing %d image(s)...\n", len(b.Selected))

	for i, path := range b.Selected {
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("Warning: file not found: %s\n", path)
			continue
		}
		fmt.Printf("\n[%d/%d] Viewing: %s\n", i+1, len(b.Selected), filepath.Base(path))

		newPath, err := b.viewer.View(path)
		if errors.Is(err, ErrInterrupted) {
			break
		}
		if err != nil {
			fmt.Printf("Error editing %s: %v\n", filepath.Base(path), err)
			continue
		}
		if newPath != "" && newPath != path {
			b.Selected[i] = newPath
		}
	}
	fmt.Printf("\nEdit complete. %d image(s) selected.\n", len(b.Selected))
}

func (b *Browser) isSelected(path string) bool {
	for _, p := range b.Selected {
		if p == path {
			return true
		}
	}
	return false
}

func (b *Browser) clearSelection() {
	n := len(b.Selected)
	b.Selected = nil
	fmt.Printf("Cleared %d image(s)\n", n)
}

// goUp moves to the parent directory; false at the filesystem root.
func (b *Browser) goUp() bool {
	parent := filepath.Dir(b.Path)
	if parent == b.Path {
		return false
	}
	b.Path = parent
	return true
}

// cleanEntry strips the type prefix, selection mark, and size suffix from a
// browser entry, leaving the bare name.
func cleanEntry(entry string) string {
	_, name, found := strings.Cut(entry, " ")
	if !found {
		return entry
	}
	name = strings.TrimLeft(name, " ")
	name = strings.TrimPrefix(name, "✓ ")
	if i := strings.LastIndex(name, " ("); i >= 0 && strings.HasSuffix(name, ")") {
		name = name[:i]
	}
	return name
}

func hasEntryPrefix(selections []string, prefix string) bool {
	for _, s := range selections {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
