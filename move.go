package mover

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ErrDuplicate marks a file skipped because a perceptually identical image
// already sits in the destination directory.
var ErrDuplicate = errors.New("duplicate image")

// backgroundsDir is the per-theme subdirectory wallpapers live in.
const backgroundsDir = "backgrounds"

// ThemeDir returns the destination directory for a theme.
func (cfg *Config) ThemeDir(theme string) string {
	cfg.defaults()
	return filepath.Join(cfg.BaseDir, theme, backgroundsDir)
}

// Move relocates the image at path into the theme's backgrounds directory
// and journals the operation. It returns the destination path. With DryRun
// set it only reports where the file would land.
func (cfg *Config) Move(path, theme string) (string, error) {
	return cfg.place(path, theme, OpMove)
}

// Copy is Move without removing the original.
func (cfg *Config) Copy(path, theme string) (string, error) {
	return cfg.place(path, theme, OpCopy)
}

func (cfg *Config) place(path, theme string, op Operation) (string, error) {
	cfg.defaults()

	targetDir := cfg.ThemeDir(theme)
	dest := uniquePath(filepath.Join(targetDir, cfg.destName(path, theme)))

	if cfg.DryRun {
		return dest, nil
	}

	if cfg.SkipDuplicates {
		if img, err := LoadImage(path); err == nil && cfg.dedup.isDuplicate(img, targetDir) {
			return "", fmt.Errorf("%w: %s already represented in %s", ErrDuplicate, filepath.Base(path), targetDir)
		}
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", err
	}

	switch op {
	case OpCopy:
		if err := copyFile(path, dest); err != nil {
			return "", fmt.Errorf("copy %s: %w", filepath.Base(path), err)
		}
	default:
		if err := moveFile(path, dest); err != nil {
			return "", fmt.Errorf("move %s: %w", filepath.Base(path), err)
		}
	}

	slog.Debug("mover: placed image", "source", path, "dest", dest, "op", string(op))
	if cfg.History != nil {
		cfg.History.Add(path, dest, theme, op)
	}
	return dest, nil
}

// destName applies the rename pattern to the source filename. The extension
// is always carried over from the source.
func (cfg *Config) destName(path, theme string) string {
	base := filepath.Base(path)
	if cfg.RenamePattern == "" {
		return base
	}

	ext := filepath.Ext(base)
	out := cfg.RenamePattern
	out = strings.ReplaceAll(out, "{name}", strings.TrimSuffix(base, ext))
	out = strings.ReplaceAll(out, "{theme}", theme)
	if strings.Contains(out, "{date}") {
		out = strings.ReplaceAll(out, "{date}", captureDateString(path))
	}
	return out + ext
}

// uniquePath appends _1, _2, ... to the stem until the path is unused.
func uniquePath(path string) string {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if _, err := os.Stat(candidate); errors.Is(err, os.ErrNotExist) {
			return candidate
		}
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
