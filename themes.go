package mover

import "sort"

// Palette maps theme names to their canonical background color.
type Palette map[string]Color

// builtinThemes are the stock Omarchy themes. Colors are the representative
// background of each theme's wallpaper set, not the full scheme.
var builtinThemes = Palette{
	"catppuccin":       {R: 30, G: 30, B: 46},
	"catppuccin-latte": {R: 239, G: 241, B: 245},
	"everforest":       {R: 43, G: 51, B: 57},
	"gruvbox":          {R: 40, G: 40, B: 40},
	"kanagawa":         {R: 31, G: 31, B: 40},
	"matte-black":      {R: 40, G: 40, B: 43},
	"nord":             {R: 46, G: 52, B: 64},
	"osaka-jade":       {R: 0, G: 168, B: 107},
	"ristretto":        {R: 31, G: 14, B: 4},
	"rose-pine":        {R: 25, G: 23, B: 36},
	"tokyo-night":      {R: 26, G: 27, B: 38},
}

// DefaultPalette returns a fresh copy of the built-in theme set, safe for
// callers to extend.
func DefaultPalette() Palette {
	p := make(Palette, len(builtinThemes))
	for name, c := range builtinThemes {
		p[name] = c
	}
	return p
}

// MergePalettes overlays custom themes on base. Custom wins on a name
// collision; neither input is modified.
func MergePalettes(base, custom Palette) Palette {
	merged := make(Palette, len(base)+len(custom))
	for name, c := range base {
		merged[name] = c
	}
	for name, c := range custom {
		merged[name] = c
	}
	return merged
}

// Names returns the palette's theme names in sorted order, so listings and
// tie-breaks come out the same every run.
func (p Palette) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a known theme.
func (p Palette) Has(name string) bool {
	_, ok := p[name]
	return ok
}
