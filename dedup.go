package mover

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/corona10/goimagehash"
)

// dedupThreshold is the maximum Hamming distance between two dHash values
// below which images are considered perceptually identical. 64-bit hashes;
// 10 differing bits tolerates recompression and mild resizing.
const dedupThreshold = 10

// dedupIndex lazily hashes destination directories so a batch pays the
// hashing cost once per directory, not once per incoming image.
type dedupIndex struct {
	dirs map[string][]*goimagehash.ImageHash
}

// isDuplicate returns true if img is perceptually identical to an image
// already indexed for dir. If hashing fails for any reason, the image is
// accepted. Accepted images join the index, so duplicates within one batch
// are caught too.
func (d *dedupIndex) isDuplicate(img image.Image, dir string) bool {
	hash, err := goimagehash.DifferenceHash(img)
	if err != nil {
		// Unable to hash → accept the image.
		return false
	}

	hashes := d.hashesFor(dir)
	for _, h := range hashes {
		dist, err := hash.Distance(h)
		if err == nil && dist < dedupThreshold {
			slog.Debug("mover: perceptual duplicate", "dir", dir, "distance", dist)
			return true
		}
	}

	d.dirs[dir] = append(hashes, hash)
	return false
}

// hashesFor returns the cached hashes for dir, scanning its images on first
// use. Files that fail to decode or hash are skipped.
func (d *dedupIndex) hashesFor(dir string) []*goimagehash.ImageHash {
	if d.dirs == nil {
		d.dirs = make(map[string][]*goimagehash.ImageHash)
	}
	if hashes, ok := d.dirs[dir]; ok {
		return hashes
	}

	var hashes []*goimagehash.ImageHash
	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !IsImagePath(entry.Name()) {
				continue
			}
			img, err := LoadImage(filepath.Join(dir, entry.Name()))
			if err != nil {
				continue
			}
			if h, err := goimagehash.DifferenceHash(img); err == nil {
				hashes = append(hashes, h)
			}
		}
	}
	d.dirs[dir] = hashes
	return hashes
}
