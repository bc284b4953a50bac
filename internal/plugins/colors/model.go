// Package colors manages each user's saved color collection: adding colors
// by hex or from generator output, renaming, favoriting, deleting and
// rendering color codes. Collections live in the key-value store as one JSON
// document per user, newest color first.
package colors

import (
	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

// MaxNameLength caps color names after sanitizing.
const MaxNameLength = 100

// MaxBatchSize caps how many colors one batch add may save.
const MaxBatchSize = 100

// ColorView is a stored color plus the foreground that stays legible on it.
type ColorView struct {
	colorutil.Color
	Contrast string `json:"contrast"`
}

// NewColorView decorates c with its contrast color.
func NewColorView(c colorutil.Color) ColorView {
	return ColorView{Color: c, Contrast: colorutil.GetContrastColor(c.Hex)}
}

// ListOptions filters a color listing.
type ListOptions struct {
	// Query matches case-insensitively against name or hex.
	Query string

	// FavoritesOnly keeps only favorited colors.
	FavoritesOnly bool
}

// CodeResult is a rendered color code.
type CodeResult struct {
	Format colorutil.Format `json:"format"`
	Code   string           `json:"code"`
}

// --- Request DTOs ---

// AddColorRequest is the body of POST /api/v1/colors.
type AddColorRequest struct {
	Name string `json:"name" validate:"required"`
	Hex  string `json:"hex" validate:"required"`
}

// AddColorsRequest is the body of POST /api/v1/colors/batch. Colors are
// usually the output of the generator endpoints.
type AddColorsRequest struct {
	Colors []colorutil.Color `json:"colors" validate:"required,min=1,max=100"`
}

// RenameColorRequest is the body of PATCH /api/v1/colors/:id.
type RenameColorRequest struct {
	Name string `json:"name" validate:"required"`
}
