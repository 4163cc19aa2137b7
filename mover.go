// Package mover sorts wallpaper images into Omarchy theme directories by
// dominant color.
//
// The pipeline: decode an image, downsample it, find its most frequent
// quantized color, and match that against a theme palette by weighted RGB
// distance. Recorded user corrections can override a match, and every move
// is journaled so it can be undone.
package mover

// Config wires together the mover's collaborators. The zero value works:
// methods fill in defaults on first use, and nil collaborators switch their
// feature off rather than failing.
type Config struct {
	// Palette maps theme names to canonical background colors.
	// Defaults to the built-in Omarchy themes.
	Palette Palette

	// Learner replays past user corrections over detection results.
	// Nil disables learning.
	Learner *Learner

	// History journals moves and copies for undo. Nil disables journaling.
	History *History

	// BaseDir is the root of the theme tree. Images land in
	// BaseDir/<theme>/backgrounds.
	BaseDir string

	// RenamePattern renames files on arrival. Tokens: {name} is the source
	// stem, {theme} the chosen theme, {date} the capture date. The extension
	// is always preserved. Empty keeps the original filename.
	RenamePattern string

	// DryRun reports destinations without touching the filesystem.
	DryRun bool

	// SkipDuplicates drops images perceptually identical to one already in
	// the destination directory.
	SkipDuplicates bool

	dedup dedupIndex
}

// defaults fills unset fields with working values.
func (cfg *Config) defaults() {
	if cfg.Palette == nil {
		cfg.Palette = DefaultPalette()
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = DefaultBaseDir()
	}
}
