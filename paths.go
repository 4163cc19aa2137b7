package mover

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ against the user's home directory.
// Anything else passes through unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Default locations match a stock Omarchy install, so state files written by
// earlier versions of the tool keep working.

// DefaultBaseDir is the root of the theme tree.
func DefaultBaseDir() string {
	return ExpandPath("~/.local/share/omarchy/themes")
}

// DefaultHistoryPath is the operation journal.
func DefaultHistoryPath() string {
	return ExpandPath("~/.local/share/omarchy/mover_history.json")
}

// DefaultSettingsPath is the user config file.
func DefaultSettingsPath() string {
	return ExpandPath("~/.config/omarchy/mover.json")
}

// DefaultPatternsPath is the learned corrections file.
func DefaultPatternsPath() string {
	return ExpandPath("~/.config/omarchy-mover/learned_patterns.json")
}
