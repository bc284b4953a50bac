package colorutil

// Foreground colors returned by GetContrastColor.
const (
	ContrastBlack = "#000000"
	ContrastWhite = "#ffffff"
)

// brightnessThreshold is 128 on the luma scale, multiplied by 1000 so the
// comparison stays in exact integer arithmetic.
const brightnessThreshold = 128 * 1000

// GetContrastColor returns black text for backgrounds brighter than 128 on
// the BT.601 luma scale (0.299r + 0.587g + 0.114b) and white otherwise. A
// brightness of exactly 128 gets white. Malformed hex is treated as black
// and therefore gets white.
func GetContrastColor(hex string) string {
	if luma1000(HexToRGB(hex)) > brightnessThreshold {
		return ContrastBlack
	}
	return ContrastWhite
}

// Brightness returns the BT.601 luma of rgb on a [0,255] scale.
func Brightness(rgb RGB) float64 {
	return float64(luma1000(rgb)) / 1000
}

func luma1000(rgb RGB) int {
	return rgb.R*299 + rgb.G*587 + rgb.B*114
}
