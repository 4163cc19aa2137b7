package mover

import (
	"encoding/json"
	"fmt"
	"math"
)

// Color is an 8-bit RGB triple. Its JSON form is a three-element array
// [r, g, b], matching the correction and config files on disk.
type Color struct {
	R, G, B uint8
}

// Channel weights for the distance metric, approximating the eye's uneven
// sensitivity: green differences dominate, blue barely registers.
const (
	weightR = 0.30
	weightG = 0.59
	weightB = 0.11
)

// quantStep is the channel granularity used when counting pixel frequencies.
// Grouping values into buckets of 16 lets slight gradients count as one color.
const quantStep = 16

// Distance returns the perceptually weighted Euclidean distance between two
// colors. Zero means identical; symmetric in its arguments.
func Distance(a, b Color) float64 {
	dr := weightR * (float64(a.R) - float64(b.R))
	dg := weightG * (float64(a.G) - float64(b.G))
	db := weightB * (float64(a.B) - float64(b.B))
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Quantize rounds each channel down to its quantStep bucket.
// Idempotent: quantizing twice changes nothing.
func Quantize(c Color) Color {
	return Color{
		R: c.R / quantStep * quantStep,
		G: c.G / quantStep * quantStep,
		B: c.B / quantStep * quantStep,
	}
}

// Hex returns the #rrggbb form, as terminal styling expects it.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String renders the color as "(r, g, b)" for prompts and logs.
func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as [r, g, b].
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{int(c.R), int(c.G), int(c.B)})
}

// UnmarshalJSON decodes a [r, g, b] array, rejecting wrong lengths and
// out-of-range channels.
func (c *Color) UnmarshalJSON(data []byte) error {
	var channels []int
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if len(channels) != 3 {
		return fmt.Errorf("color: want 3 channels, got %d", len(channels))
	}
	for _, v := range channels {
		if v < 0 || v > 255 {
			return fmt.Errorf("color: channel value %d out of range", v)
		}
	}
	*c = Color{uint8(channels[0]), uint8(channels[1]), uint8(channels[2])}
	return nil
}
