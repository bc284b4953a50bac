package colorutil

import (
	"gonum.org/v1/gonum/stat"
)

// Combine averages each RGB channel across colors, rounds each mean half
// away from zero, and derives hex and HSL from the result. This is the swatch
// shown for a selection preview and for every stored palette.
//
// Returns ErrEmptySelection when colors is empty.
func Combine(colors []Color) (Combined, error) {
	if len(colors) == 0 {
		return Combined{}, ErrEmptySelection
	}

	rs := make([]float64, len(colors))
	gs := make([]float64, len(colors))
	bs := make([]float64, len(colors))
	for i, c := range colors {
		rs[i] = float64(c.RGB.R)
		gs[i] = float64(c.RGB.G)
		bs[i] = float64(c.RGB.B)
	}

	rgb := RGB{
		R: roundInt(stat.Mean(rs, nil)),
		G: roundInt(stat.Mean(gs, nil)),
		B: roundInt(stat.Mean(bs, nil)),
	}

	return Combined{
		Hex: RGBToHex(rgb.R, rgb.G, rgb.B),
		RGB: rgb,
		HSL: RGBToHSL(rgb.R, rgb.G, rgb.B),
	}, nil
}
