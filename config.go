package mover

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Settings is the user-editable configuration file. Paths are stored with ~
// unexpanded; callers expand at use. Unknown keys are ignored and missing
// keys keep their defaults, so partial files are fine.
type Settings struct {
	BaseDir                   string           `json:"base_dir" validate:"required"`
	HistoryFile               string           `json:"history_file" validate:"required"`
	MaxHistory                int              `json:"max_history" validate:"min=1"`
	CustomThemes              map[string]Color `json:"custom_themes"`
	DefaultMode               string           `json:"default_mode" validate:"omitempty,oneof=auto manual"`
	ConfidenceThreshold       float64          `json:"confidence_threshold" validate:"min=0"`
	AutoConfirmHighConfidence bool             `json:"auto_confirm_high_confidence"`
	SkipDuplicates            bool             `json:"skip_duplicates"`
}

// DefaultSettings returns the stock configuration. DefaultMode is left empty
// so the tool asks for a mode until the user picks one in the config.
func DefaultSettings() Settings {
	return Settings{
		BaseDir:                   "~/.local/share/omarchy/themes",
		HistoryFile:               "~/.local/share/omarchy/mover_history.json",
		MaxHistory:                100,
		CustomThemes:              map[string]Color{},
		ConfidenceThreshold:       50,
		AutoConfirmHighConfidence: true,
		SkipDuplicates:            true,
	}
}

// LoadSettings reads the config at path, or the default location when path
// is empty, merging file values over the defaults. A missing file yields the
// defaults silently; an unreadable or invalid one yields the defaults with a
// warning. Configuration problems never stop the tool.
func LoadSettings(path string) Settings {
	if path == "" {
		path = DefaultSettingsPath()
	}

	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("mover: cannot read config", "path", path, "error", err.Error())
		}
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("mover: malformed config, using defaults", "path", path, "error", err.Error())
		return DefaultSettings()
	}
	if err := s.Validate(); err != nil {
		slog.Warn("mover: invalid config, using defaults", "path", path, "error", err.Error())
		return DefaultSettings()
	}
	return s
}

// Validate checks the settings against their declared constraints.
func (s Settings) Validate() error {
	return validate.Struct(s)
}

// Save writes the settings to path, or the default location when empty.
func (s Settings) Save(path string) error {
	if path == "" {
		path = DefaultSettingsPath()
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// WriteDefaultSettings creates the stock config file and returns its path.
func WriteDefaultSettings(path string) (string, error) {
	if path == "" {
		path = DefaultSettingsPath()
	}
	if err := DefaultSettings().Save(path); err != nil {
		return "", err
	}
	return path, nil
}

// Palette returns the built-in themes overlaid with the user's custom ones.
func (s Settings) Palette() Palette {
	return MergePalettes(DefaultPalette(), Palette(s.CustomThemes))
}

// bundleVersion marks the bundle document format.
const bundleVersion = "1.0"

// Bundle is the portable settings package: custom themes plus learned
// corrections, for carrying a setup between machines.
type Bundle struct {
	CustomThemes    map[string]Color `json:"custom_themes"`
	LearnedPatterns []Correction     `json:"learned_patterns"`
	ExportedAt      Timestamp        `json:"exported_at"`
	ConfigVersion   string           `json:"config_version"`
}

// ExportBundle writes the current custom themes and corrections to path.
func (s Settings) ExportBundle(path string, learner *Learner) error {
	bundle := Bundle{
		CustomThemes:  s.CustomThemes,
		ExportedAt:    Timestamp{time.Now()},
		ConfigVersion: bundleVersion,
	}
	if bundle.CustomThemes == nil {
		bundle.CustomThemes = map[string]Color{}
	}
	if learner != nil {
		bundle.LearnedPatterns = learner.Corrections()
	}
	if bundle.LearnedPatterns == nil {
		bundle.LearnedPatterns = []Correction{}
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// ImportBundle merges custom themes and corrections from path into the
// settings and learner, then saves both. Corrections merge with the usual
// duplicate handling; custom themes are overlaid by name.
func (s *Settings) ImportBundle(path, settingsPath string, learner *Learner) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if len(bundle.CustomThemes) > 0 {
		if s.CustomThemes == nil {
			s.CustomThemes = map[string]Color{}
		}
		for name, c := range bundle.CustomThemes {
			s.CustomThemes[name] = c
		}
		if err := s.Save(settingsPath); err != nil {
			return err
		}
	}

	if learner != nil && len(bundle.LearnedPatterns) > 0 {
		learner.mergeCorrections(bundle.LearnedPatterns)
	}
	return nil
}
