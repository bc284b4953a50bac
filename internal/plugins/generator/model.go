// Package generator exposes the color engine over HTTP without touching any
// stored collection: lightness variations, hue harmonies, contrast checks,
// selection previews and conversions. The routes are public.
package generator

import (
	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

// Generation modes, used as the metrics label.
const (
	ModeVariations = "variations"
	ModeHarmony    = "harmony"
)

// ConversionResult describes one color in all three notations.
type ConversionResult struct {
	Hex      string        `json:"hex"`
	RGB      colorutil.RGB `json:"rgb"`
	HSL      colorutil.HSL `json:"hsl"`
	Contrast string        `json:"contrast"`
}

// ContrastResult is the legible foreground for a background color.
type ContrastResult struct {
	Hex        string  `json:"hex"`
	Contrast   string  `json:"contrast"`
	Brightness float64 `json:"brightness"`
}

// CombineResult is a selection preview.
type CombineResult struct {
	colorutil.Combined
	Contrast string `json:"contrast"`
}

// CombineRequest is the body of POST /api/v1/generate/combine. Either full
// color objects or bare hex strings may be sent; when colors are given their
// stored RGB channels are averaged as-is.
type CombineRequest struct {
	Colors []colorutil.Color `json:"colors"`
	Hexes  []string          `json:"hexes"`
}
