// Package transfer moves a user's collections in and out of the service as
// a single JSON document, the same file format the browser version of the
// application exported. Exports can also be archived to S3-compatible
// storage.
package transfer

import (
	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

// ExportFilename is the download name of an export.
const ExportFilename = "color-palette.json"

// Document is the export file.
type Document struct {
	Colors   []colorutil.Color   `json:"colors"`
	Palettes []colorutil.Palette `json:"palettes"`
}

// importDocument distinguishes absent keys from empty lists. A key that is
// absent or null leaves its collection untouched.
type importDocument struct {
	Colors   *[]colorutil.Color   `json:"colors"`
	Palettes *[]colorutil.Palette `json:"palettes"`
}

// ImportResult reports what an import replaced. A nil count means that
// collection was left as it was.
type ImportResult struct {
	Colors   *int `json:"colors"`
	Palettes *int `json:"palettes"`
}
