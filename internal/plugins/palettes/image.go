package palettes

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

// Strip layout, in pixels.
const (
	cellWidth   = 80
	stripHeight = 120
	swatchInset = 10
	swatchSize  = 60
	labelY      = 90
)

var stripBackground = color.RGBA{R: 0x22, G: 0x22, B: 0x3b, A: 0xff}

// errNothingToRender is returned by RenderPNG for an empty color list.
var errNothingToRender = errors.New("no colors to render")

// RenderPNG draws colors as a horizontal strip: one 80px cell per color on a
// dark background, each with a white-bordered 60px swatch and its uppercase
// hex below it.
func RenderPNG(colors []colorutil.Color) ([]byte, error) {
	if len(colors) == 0 {
		return nil, errNothingToRender
	}

	img := image.NewRGBA(image.Rect(0, 0, cellWidth*len(colors), stripHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(stripBackground), image.Point{}, draw.Src)

	d := &font.Drawer{Dst: img, Src: image.White, Face: basicfont.Face7x13}
	for i, c := range colors {
		x := i*cellWidth + swatchInset
		y := swatchInset

		// A 2px stroke centered on the swatch edge: 1px outside, 1px inside.
		border := image.Rect(x-1, y-1, x+swatchSize+1, y+swatchSize+1)
		draw.Draw(img, border, image.White, image.Point{}, draw.Src)
		fill := image.Rect(x+1, y+1, x+swatchSize-1, y+swatchSize-1)
		rgb := colorutil.HexToRGB(c.Hex)
		swatch := color.RGBA{R: uint8(rgb.R), G: uint8(rgb.G), B: uint8(rgb.B), A: 0xff}
		draw.Draw(img, fill, image.NewUniform(swatch), image.Point{}, draw.Src)

		label := colorutil.FormatColorCode(c, colorutil.FormatHex, "")
		center := i*cellWidth + cellWidth/2
		d.Dot = fixed.Point26_6{
			X: fixed.I(center) - d.MeasureString(label)/2,
			Y: fixed.I(labelY),
		}
		d.DrawString(label)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
