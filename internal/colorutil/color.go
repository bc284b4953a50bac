// Package colorutil is the color model and conversion engine for DevPalette.
// It converts between HEX, RGB, and HSL, renders color codes, generates
// lightness variations and hue harmonies, averages palettes into a single
// combined swatch, and picks a legible foreground for a background color.
//
// Everything here is a pure function over values passed in. The package never
// reads or writes storage, never assigns collection IDs, and holds no state
// between calls, so it is safe for concurrent use from any handler.
package colorutil

import (
	"errors"
	"time"
)

// RGB is an additive color with three 8-bit channels in [0,255].
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// HSL is a cylindrical color. H is integer degrees in [0,360); S and L are
// integer percentages in [0,100].
type HSL struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// Color is a cataloged color value. Hex, RGB, and HSL always describe the
// same color; the engine builds them together and never edits one without
// the others. Collection owners replace whole values on edit.
//
// The JSON shape matches the export files written by the browser version of
// the application, so old exports import unchanged.
type Color struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Hex        string    `json:"hex"`
	RGB        RGB       `json:"rgb"`
	HSL        HSL       `json:"hsl"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Palette is an ordered group of colors. Its combined color is not stored;
// call Combine on Colors whenever it is needed.
type Palette struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Colors     []Color   `json:"colors"`
	CreatedAt  time.Time `json:"createdAt"`
	IsFavorite bool      `json:"isFavorite"`
}

// Combined is the representative swatch of a set of colors.
type Combined struct {
	Hex string `json:"hex"`
	RGB RGB    `json:"rgb"`
	HSL HSL    `json:"hsl"`
}

var (
	// ErrInvalidHex is returned by ParseHex for input that is not a 6-digit
	// hex color with an optional leading '#'.
	ErrInvalidHex = errors.New("invalid hex color")

	// ErrEmptySelection is returned by Combine when no colors are given.
	ErrEmptySelection = errors.New("cannot combine an empty set of colors")
)

// NewColor builds a Color from an RGB triple, deriving hex and HSL.
func NewColor(id, name string, rgb RGB, createdAt time.Time) Color {
	return Color{
		ID:        id,
		Name:      name,
		Hex:       RGBToHex(rgb.R, rgb.G, rgb.B),
		RGB:       rgb,
		HSL:       RGBToHSL(rgb.R, rgb.G, rgb.B),
		CreatedAt: createdAt,
	}
}

// Resync returns c with RGB and HSL recomputed from its hex string. Used when
// accepting colors from outside the engine (imports) whose channels may have
// drifted from the hex they claim.
func Resync(c Color) Color {
	rgb := HexToRGB(c.Hex)
	c.Hex = RGBToHex(rgb.R, rgb.G, rgb.B)
	c.RGB = rgb
	c.HSL = RGBToHSL(rgb.R, rgb.G, rgb.B)
	return c
}
