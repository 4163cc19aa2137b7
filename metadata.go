package mover

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/bep/imagemeta"
)

// exifDateTags are the capture-date tags we accept, in preference order.
var exifDateTags = []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"}

// CaptureDate extracts the capture time from a photo's EXIF metadata.
// Reports false when the file carries no usable date tag; parse problems are
// treated the same way, never as errors.
func CaptureDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()

	wanted := make(map[string]bool, len(exifDateTags))
	for _, tag := range exifDateTags {
		wanted[tag] = true
	}

	found := map[string]time.Time{}
	err = imagemeta.Decode(imagemeta.Options{
		R:       f,
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return wanted[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if t, ok := tagTime(ti.Value); ok {
				found[ti.Tag] = t
			}
			return nil
		},
	})
	if err != nil || len(found) == 0 {
		return time.Time{}, false
	}

	for _, tag := range exifDateTags {
		if t, ok := found[tag]; ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// tagTime coerces an EXIF tag value to a time. Date tags arrive either
// pre-parsed as time.Time or as the raw "2006:01:02 15:04:05" string.
func tagTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		if !val.IsZero() {
			return val, true
		}
	case string:
		if t, err := time.Parse("2006:01:02 15:04:05", val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// captureDateString renders the {date} rename token: the EXIF capture date
// when available, the file modification time otherwise.
func captureDateString(path string) string {
	if t, ok := CaptureDate(path); ok {
		return t.Format("2006-01-02")
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime().Format("2006-01-02")
	}
	return time.Now().Format("2006-01-02")
}

// ImageInfo is the summary the viewer and preview show for a file.
type ImageInfo struct {
	Width    int
	Height   int
	Format   string
	Size     int64
	Captured time.Time // zero when the file has no capture date
}

// ReadImageInfo collects display info for path without decoding pixel data.
func ReadImageInfo(path string) (*ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	defer f.Close()

	imgCfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	info := &ImageInfo{Width: imgCfg.Width, Height: imgCfg.Height, Format: format}
	if st, err := os.Stat(path); err == nil {
		info.Size = st.Size()
	}
	if t, ok := CaptureDate(path); ok {
		info.Captured = t
	}
	return info, nil
}
