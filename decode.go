package mover

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the wallpaper formats we accept.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Decode failures callers can match with errors.Is.
var (
	// ErrUnreadableImage means the file could not be opened or decoded.
	ErrUnreadableImage = errors.New("unreadable image")

	// ErrEmptyImage means the file decoded to zero pixels.
	ErrEmptyImage = errors.New("empty image")
)

// imageExts are the file extensions the browser and mover treat as images.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// IsImagePath reports whether path has a recognized image extension.
// Case-insensitive; paths without an extension are not images.
func IsImagePath(path string) bool {
	return imageExts[strings.ToLower(filepath.Ext(path))]
}

// LoadImage decodes the image at path. Failures wrap ErrUnreadableImage or
// ErrEmptyImage so callers can tell decode problems from degenerate images.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyImage, path)
	}
	return img, nil
}
