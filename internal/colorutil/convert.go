package colorutil

import (
	"math"
	"regexp"
	"strconv"
)

// hexPattern matches a 6-digit hex color with an optional leading '#'.
var hexPattern = regexp.MustCompile(`^#?([a-fA-F\d]{2})([a-fA-F\d]{2})([a-fA-F\d]{2})$`)

// black is what HexToRGB returns for input it cannot parse.
var black = RGB{}

// ParseHex strictly parses a hex color. New call sites should prefer it over
// HexToRGB so malformed input is reported instead of silently turning black.
func ParseHex(hex string) (RGB, error) {
	m := hexPattern.FindStringSubmatch(hex)
	if m == nil {
		return RGB{}, ErrInvalidHex
	}
	r, _ := strconv.ParseUint(m[1], 16, 8)
	g, _ := strconv.ParseUint(m[2], 16, 8)
	b, _ := strconv.ParseUint(m[3], 16, 8)
	return RGB{R: int(r), G: int(g), B: int(b)}, nil
}

// HexToRGB parses a hex color, returning black for anything malformed.
// Existing callers depend on the fallback; see ParseHex for the strict form.
func HexToRGB(hex string) RGB {
	rgb, err := ParseHex(hex)
	if err != nil {
		return hexFallback()
	}
	return rgb
}

func hexFallback() RGB {
	return black
}

// RGBToHex packs three channels into a lowercase "#rrggbb" string. Channels
// must already be in [0,255]; they are not clamped, and out-of-range values
// produce wrapped output.
func RGBToHex(r, g, b int) string {
	packed := (1 << 24) + (r << 16) + (g << 8) + b
	return "#" + strconv.FormatInt(int64(packed), 16)[1:]
}

// RGBToHSL converts 8-bit channels to integer HSL. Intermediate math is done
// in floats and rounded only on output.
func RGBToHSL(r, g, b int) HSL {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	maxC := math.Max(rf, math.Max(gf, bf))
	minC := math.Min(rf, math.Min(gf, bf))
	l := (maxC + minC) / 2

	// Achromatic: hue and saturation are both zero.
	if maxC == minC {
		return HSL{H: 0, S: 0, L: roundInt(l * 100)}
	}

	d := maxC - minC
	var s float64
	if l > 0.5 {
		s = d / (2 - maxC - minC)
	} else {
		s = d / (maxC + minC)
	}

	var h float64
	switch maxC {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h /= 6

	hue := roundInt(h * 360)
	if hue == 360 {
		hue = 0
	}

	return HSL{H: hue, S: roundInt(s * 100), L: roundInt(l * 100)}
}

// HSLToRGB converts integer HSL back to 8-bit channels.
func HSLToRGB(h, s, l int) RGB {
	hf := float64(h) / 360
	sf := float64(s) / 100
	lf := float64(l) / 100

	if sf == 0 {
		v := roundInt(lf * 255)
		return RGB{R: v, G: v, B: v}
	}

	var q float64
	if lf < 0.5 {
		q = lf * (1 + sf)
	} else {
		q = lf + sf - lf*sf
	}
	p := 2*lf - q

	return RGB{
		R: roundInt(hueToRGB(p, q, hf+1.0/3) * 255),
		G: roundInt(hueToRGB(p, q, hf) * 255),
		B: roundInt(hueToRGB(p, q, hf-1.0/3) * 255),
	}
}

// hueToRGB interpolates one channel between the anchors p and q for hue
// position t, wrapping t into [0,1].
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

// roundInt rounds half away from zero. All engine outputs are non-negative,
// so this matches the browser's Math.round on every value it sees.
func roundInt(v float64) int {
	return int(math.Round(v))
}
