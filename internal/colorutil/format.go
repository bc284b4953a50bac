package colorutil

import (
	"fmt"
	"regexp"
	"strings"
)

// Format selects the textual code rendered by FormatColorCode.
type Format string

const (
	FormatHex    Format = "hex"
	FormatRGB    Format = "rgb"
	FormatHSL    Format = "hsl"
	FormatCSSVar Format = "css-var"
)

// whitespaceRun collapses whitespace in CSS variable slugs.
var whitespaceRun = regexp.MustCompile(`\s+`)

// FormatColorCode renders c as a color code. varName overrides the CSS
// variable name for FormatCSSVar and is ignored otherwise. Unknown formats
// render as FormatHex.
func FormatColorCode(c Color, format Format, varName string) string {
	switch format {
	case FormatRGB:
		return fmt.Sprintf("rgb(%d, %d, %d)", c.RGB.R, c.RGB.G, c.RGB.B)
	case FormatHSL:
		return fmt.Sprintf("hsl(%d, %d%%, %d%%)", c.HSL.H, c.HSL.S, c.HSL.L)
	case FormatCSSVar:
		name := varName
		if name == "" {
			name = CSSVarSlug(c.Name)
		}
		return fmt.Sprintf("--%s: %s;", name, strings.ToLower(c.Hex))
	default:
		return strings.ToUpper(c.Hex)
	}
}

// CSSVarSlug lowercases name and replaces each run of whitespace with a
// single hyphen: "Sky  Blue" becomes "sky-blue".
func CSSVarSlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// ParseFormat maps a query value to a Format. The second result is false for
// values FormatColorCode would treat as hex by default.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHex, FormatRGB, FormatHSL, FormatCSSVar:
		return f, true
	}
	return FormatHex, false
}
