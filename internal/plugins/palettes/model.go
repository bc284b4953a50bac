// Package palettes manages saved palettes: small ordered groups of colors
// copied out of the user's collection, each shown with the combined color of
// its members. It also renders palettes and whole collections as PNG strips.
package palettes

import (
	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

// MaxPaletteColors is how many colors can be selected for one palette.
const MaxPaletteColors = 3

// PaletteView is a stored palette with its combined color.
type PaletteView struct {
	colorutil.Palette
	Combined colorutil.Combined `json:"combined"`
}

// NewPaletteView computes the combined color of p. A palette without colors
// (only possible through import) gets a zero combined color.
func NewPaletteView(p colorutil.Palette) PaletteView {
	combined, _ := colorutil.Combine(p.Colors)
	return PaletteView{Palette: p, Combined: combined}
}

// CreatePaletteRequest is the body of POST /api/v1/palettes.
type CreatePaletteRequest struct {
	Name     string   `json:"name" validate:"max=200"`
	ColorIDs []string `json:"colorIds" validate:"required,min=1,max=3,unique,dive,required"`
}
