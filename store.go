package mover

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// correctionsDoc is the on-disk document shared by the store, exports, and
// imports. The shape must stay stable: files written by earlier releases
// are read back as-is.
type correctionsDoc struct {
	Corrections []Correction `json:"corrections"`
	LastUpdated Timestamp    `json:"last_updated"`
}

// FileStore persists corrections as a single JSON document.
type FileStore struct {
	Path string
}

// NewFileStore returns a store writing to path, or to the default patterns
// file under the user config directory when path is empty.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPatternsPath()
	}
	return &FileStore{Path: path}
}

// Load reads the whole correction sequence. A missing file is an empty
// sequence, not an error.
func (s *FileStore) Load() ([]Correction, error) {
	corrections, err := readCorrectionsFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return corrections, err
}

// Save rewrites the whole document. Write-to-temp-then-rename keeps a crash
// mid-write from corrupting the previous snapshot.
func (s *FileStore) Save(corrections []Correction) error {
	return writeCorrectionsFile(s.Path, corrections)
}

func readCorrectionsFile(path string) ([]Correction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc correctionsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Corrections, nil
}

func writeCorrectionsFile(path string, corrections []Correction) error {
	if corrections == nil {
		corrections = []Correction{}
	}
	doc := correctionsDoc{Corrections: corrections, LastUpdated: Timestamp{time.Now()}}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a sibling temp file and renames it over
// path, creating parent directories as needed.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
