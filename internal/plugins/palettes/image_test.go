package palettes

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

func pngSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRenderPNG_Layout(t *testing.T) {
	cs := []colorutil.Color{
		colorutil.NewColor("1", "Red", colorutil.RGB{R: 255}, time.Time{}),
		colorutil.NewColor("2", "Teal", colorutil.RGB{G: 128, B: 128}, time.Time{}),
	}
	data, err := RenderPNG(cs)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Fatalf("expected 160x120, got %v", b)
	}

	white := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0x22, 0x22, 0x3b, 0xff}
	checks := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"background corner", 0, 0, bg},
		{"background between swatches", 75, 40, bg},
		{"outer border pixel", 9, 9, white},
		{"inner border pixel", 10, 40, white},
		{"first swatch", 40, 40, color.RGBA{255, 0, 0, 255}},
		{"first swatch edge", 11, 11, color.RGBA{255, 0, 0, 255}},
		{"second swatch", 120, 40, color.RGBA{0, 128, 128, 255}},
		{"second border", 89, 40, white},
		{"below swatch", 40, 73, bg},
	}
	for _, c := range checks {
		if got := rgbaAt(img, c.x, c.y); got != c.want {
			t.Errorf("%s at (%d,%d): expected %v, got %v", c.name, c.x, c.y, c.want, got)
		}
	}

	// Each label is drawn in white around the baseline at y=90, inside its
	// own cell.
	for cell := 0; cell < 2; cell++ {
		found := false
		for y := 76; y <= 93 && !found; y++ {
			for x := cell*80 + 5; x < cell*80+75; x++ {
				if rgbaAt(img, x, y) == white {
					found = true
					break
				}
			}
		}
		if !found {
			t.Errorf("cell %d: expected a white label near y=90", cell)
		}
	}
}

func TestRenderPNG_Empty(t *testing.T) {
	if _, err := RenderPNG(nil); err == nil {
		t.Fatal("expected error for empty color list")
	}
}
