package mover

import (
	"image"
	"log/slog"
	"math"

	"golang.org/x/image/draw"
)

// maxSampleEdge bounds an image's longest side before pixel counting.
// Downsampling is a cost and noise control, not a correctness step.
const maxSampleEdge = 200

// Confidence thresholds for the weighted distance metric, tuned for the
// built-in palette. Independent of the learner's similarity radius: tuning
// one must not move the other.
const (
	highConfidenceMax   = 20.0
	mediumConfidenceMax = 35.0
)

// Confidence grades how closely a dominant color matches its theme.
type Confidence int

const (
	ConfidenceHigh Confidence = iota
	ConfidenceMedium
	ConfidenceLow
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	default:
		return "low"
	}
}

// Symbol returns the short badge shown in prompts and previews.
func (c Confidence) Symbol() string {
	switch c {
	case ConfidenceHigh:
		return "[HIGH]"
	case ConfidenceMedium:
		return "[MED]"
	default:
		return "[LOW]"
	}
}

// confidenceFor buckets a weighted distance into a confidence grade.
func confidenceFor(dist float64) Confidence {
	switch {
	case dist < highConfidenceMax:
		return ConfidenceHigh
	case dist < mediumConfidenceMax:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Analysis is the detector's verdict for one image.
type Analysis struct {
	Color      Color   // dominant color after quantization
	Theme      string  // closest theme in the palette
	Distance   float64 // weighted distance to that theme's color
	Confidence Confidence
}

// Decision pairs an analysis with the final theme after learned overrides.
// Analysis.Theme keeps the raw detector output so callers can show what the
// learner changed.
type Decision struct {
	Analysis Analysis
	Theme    string // final theme, possibly overridden
	Learned  bool   // a past correction overrode the detector
}

// downsample scales img so its longest side is at most maxSampleEdge,
// preserving aspect ratio. Small images pass through untouched.
func downsample(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSampleEdge {
		return img
	}

	scale := float64(maxSampleEdge) / float64(longest)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// DominantColor returns the most frequent quantized color in img.
// The image is downsampled first; quantization groups near-identical pixels
// so gradients count as one color. Ties resolve to the color seen first in
// scan order, keeping results deterministic. Reports false when img is nil
// or has no pixels.
func DominantColor(img image.Image) (Color, bool) {
	if img == nil {
		return Color{}, false
	}
	img = downsample(img)
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return Color{}, false
	}

	counts := make(map[Color]int)
	order := make([]Color, 0, 64)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			q := Quantize(Color{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)})
			if counts[q] == 0 {
				order = append(order, q)
			}
			counts[q]++
		}
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best, true
}

// AverageColor returns the unweighted per-channel mean over every pixel,
// truncated to integers. Fallback for when frequency counting cannot run.
func AverageColor(img image.Image) (Color, bool) {
	if img == nil {
		return Color{}, false
	}
	b := img.Bounds()
	n := uint64(b.Dx()) * uint64(b.Dy())
	if n == 0 {
		return Color{}, false
	}

	var sr, sg, sb uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			sr += uint64(r >> 8)
			sg += uint64(g >> 8)
			sb += uint64(bl >> 8)
		}
	}
	return Color{uint8(sr / n), uint8(sg / n), uint8(sb / n)}, true
}

// extractColor prefers the dominant color and falls back to the plain
// average when frequency counting yields nothing.
func extractColor(img image.Image) (Color, bool) {
	if c, ok := DominantColor(img); ok {
		return c, true
	}
	return AverageColor(img)
}

// DetectTheme matches c against every theme in the palette and returns the
// closest name, its weighted distance, and the derived confidence. Themes
// are scanned in sorted name order so equal distances resolve the same way
// every run.
func (cfg *Config) DetectTheme(c Color) (string, float64, Confidence) {
	cfg.defaults()

	best := ""
	bestDist := math.Inf(1)
	for _, name := range cfg.Palette.Names() {
		if d := Distance(c, cfg.Palette[name]); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best, bestDist, confidenceFor(bestDist)
}

// Analyze classifies a decoded image. Returns nil when no color can be
// extracted from it.
func (cfg *Config) Analyze(img image.Image) *Analysis {
	cfg.defaults()

	c, ok := extractColor(img)
	if !ok {
		return nil
	}
	theme, dist, conf := cfg.DetectTheme(c)
	return &Analysis{Color: c, Theme: theme, Distance: dist, Confidence: conf}
}

// AnalyzeFile decodes and classifies the image at path. Decode failures are
// logged and yield nil, never an error: callers fall back to manual
// selection instead of aborting a batch.
func (cfg *Config) AnalyzeFile(path string) *Analysis {
	img, err := LoadImage(path)
	if err != nil {
		slog.Warn("mover: cannot analyze image", "path", path, "error", err.Error())
		return nil
	}
	return cfg.Analyze(img)
}

// Decide runs the full detection pipeline for one file: analyze, then let a
// recorded correction override the suggestion when one applies. Nil when the
// image cannot be analyzed at all.
func (cfg *Config) Decide(path string) *Decision {
	a := cfg.AnalyzeFile(path)
	if a == nil {
		return nil
	}

	d := &Decision{Analysis: *a, Theme: a.Theme}
	if cfg.Learner != nil {
		if learned, ok := cfg.Learner.LearnedTheme(a.Color, a.Theme); ok {
			d.Theme = learned
			d.Learned = true
			slog.Debug("mover: learned override",
				"path", path, "detected", a.Theme, "learned", learned)
		}
	}
	return d
}
