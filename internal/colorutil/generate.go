package colorutil

import (
	"fmt"
	"time"
)

// Lightness bounds for generated variations. The extremes are excluded so no
// variation collapses into pure black or white.
const (
	minVariationLightness = 5
	maxVariationLightness = 95
	variationStep         = 10
	variationSpan         = 4
)

// harmony is one hue offset in a harmony set.
type harmony struct {
	name   string
	offset int
}

// harmonies is ordered as callers display it.
var harmonies = []harmony{
	{name: "Complementary", offset: 180},
	{name: "Triadic 1", offset: 120},
	{name: "Triadic 2", offset: 240},
	{name: "Analogous 1", offset: 30},
	{name: "Analogous 2", offset: -30},
}

// GenerateColorVariations returns nine lightness variations of baseHex,
// darkest first. Variation i has lightness baseL+10i clamped to [5,95] with
// the base hue and saturation. Malformed input is treated as black.
func GenerateColorVariations(baseHex string) []Color {
	return generateVariations(baseHex, time.Now().UTC())
}

func generateVariations(baseHex string, now time.Time) []Color {
	rgb := HexToRGB(baseHex)
	base := RGBToHSL(rgb.R, rgb.G, rgb.B)

	variations := make([]Color, 0, 2*variationSpan+1)
	for i := -variationSpan; i <= variationSpan; i++ {
		l := clamp(base.L+i*variationStep, minVariationLightness, maxVariationLightness)
		newRGB := HSLToRGB(base.H, base.S, l)

		variations = append(variations, Color{
			ID:        fmt.Sprintf("%s-%d", baseHex, i),
			Name:      fmt.Sprintf("Variation %d", i),
			Hex:       RGBToHex(newRGB.R, newRGB.G, newRGB.B),
			RGB:       newRGB,
			HSL:       HSL{H: base.H, S: base.S, L: l},
			CreatedAt: now,
		})
	}
	return variations
}

// GenerateComplementaryColors returns the harmony set of baseHex:
// complementary, two triadic, and two analogous hues, in that order, each
// keeping the base saturation and lightness.
func GenerateComplementaryColors(baseHex string) []Color {
	return generateHarmonies(baseHex, time.Now().UTC())
}

func generateHarmonies(baseHex string, now time.Time) []Color {
	rgb := HexToRGB(baseHex)
	base := RGBToHSL(rgb.R, rgb.G, rgb.B)

	colors := make([]Color, 0, len(harmonies))
	for i, hm := range harmonies {
		h := wrapHue(base.H + hm.offset)
		newRGB := HSLToRGB(h, base.S, base.L)

		colors = append(colors, Color{
			ID:        fmt.Sprintf("%s-%s-%d", baseHex, hm.name, i),
			Name:      hm.name,
			Hex:       RGBToHex(newRGB.R, newRGB.G, newRGB.B),
			RGB:       newRGB,
			HSL:       HSL{H: h, S: base.S, L: base.L},
			CreatedAt: now,
		})
	}
	return colors
}

// wrapHue maps any integer degree value into [0,360).
func wrapHue(h int) int {
	h %= 360
	if h < 0 {
		h += 360
	}
	return h
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
