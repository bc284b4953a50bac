package generator

import (
	"fmt"
	"strings"
	"time"

	"github.com/keyxmakerx/devpalette/internal/apperror"
	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/plugins/colors"
)

// GeneratorService wraps the color engine with strict input parsing. It
// holds no state.
type GeneratorService interface {
	Variations(base string) ([]colors.ColorView, error)
	Harmony(base string) ([]colors.ColorView, error)
	Contrast(hex string) (*ContrastResult, error)
	Combine(req CombineRequest) (*CombineResult, error)
	Convert(hex string) (*ConversionResult, error)
}

type generatorService struct{}

// NewGeneratorService creates a generator service.
func NewGeneratorService() GeneratorService {
	return generatorService{}
}

// Variations returns the nine lightness steps around base.
func (generatorService) Variations(base string) ([]colors.ColorView, error) {
	hex, err := parseHex("base", base)
	if err != nil {
		return nil, err
	}
	return generated(ModeVariations, colorutil.GenerateColorVariations(hex)), nil
}

// Harmony returns the complementary, triadic and analogous hues of base.
func (generatorService) Harmony(base string) ([]colors.ColorView, error) {
	hex, err := parseHex("base", base)
	if err != nil {
		return nil, err
	}
	return generated(ModeHarmony, colorutil.GenerateComplementaryColors(hex)), nil
}

// Contrast picks black or white text for hex.
func (generatorService) Contrast(hex string) (*ContrastResult, error) {
	hex, err := parseHex("hex", hex)
	if err != nil {
		return nil, err
	}
	return &ContrastResult{
		Hex:        hex,
		Contrast:   colorutil.GetContrastColor(hex),
		Brightness: colorutil.Brightness(colorutil.HexToRGB(hex)),
	}, nil
}

// Combine previews the combined color of a selection.
func (generatorService) Combine(req CombineRequest) (*CombineResult, error) {
	selection := make([]colorutil.Color, 0, len(req.Colors)+len(req.Hexes))
	for i, c := range req.Colors {
		if !inByteRange(c.RGB) {
			return nil, apperror.NewValidation(fmt.Sprintf("colors[%d].rgb channels must be between 0 and 255", i))
		}
		selection = append(selection, colorutil.NewColor(c.ID, c.Name, c.RGB, c.CreatedAt))
	}
	for i, h := range req.Hexes {
		rgb, err := colorutil.ParseHex(strings.TrimSpace(h))
		if err != nil {
			return nil, apperror.NewValidation(fmt.Sprintf("hexes[%d] must be a 6-digit hex color", i))
		}
		selection = append(selection, colorutil.NewColor("", "", rgb, time.Time{}))
	}

	combined, err := colorutil.Combine(selection)
	if err != nil {
		return nil, apperror.NewBadRequest("select at least one color to combine")
	}
	return &CombineResult{Combined: combined, Contrast: colorutil.GetContrastColor(combined.Hex)}, nil
}

func inByteRange(rgb colorutil.RGB) bool {
	for _, v := range []int{rgb.R, rgb.G, rgb.B} {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}

// Convert describes hex in every notation.
func (generatorService) Convert(hex string) (*ConversionResult, error) {
	hex, err := parseHex("hex", hex)
	if err != nil {
		return nil, err
	}
	rgb := colorutil.HexToRGB(hex)
	return &ConversionResult{
		Hex:      hex,
		RGB:      rgb,
		HSL:      colorutil.RGBToHSL(rgb.R, rgb.G, rgb.B),
		Contrast: colorutil.GetContrastColor(hex),
	}, nil
}

// parseHex strictly parses a query value and returns it normalized to
// lowercase "#rrggbb".
func parseHex(field, value string) (string, error) {
	rgb, err := colorutil.ParseHex(strings.TrimSpace(value))
	if err != nil {
		return "", apperror.NewBadRequest(fmt.Sprintf("%s must be a 6-digit hex color such as #6366f1", field))
	}
	return colorutil.RGBToHex(rgb.R, rgb.G, rgb.B), nil
}

func generated(mode string, cs []colorutil.Color) []colors.ColorView {
	MetricGenerated.WithLabelValues(mode).Add(float64(len(cs)))
	views := make([]colors.ColorView, len(cs))
	for i, c := range cs {
		views[i] = colors.NewColorView(c)
	}
	return views
}
