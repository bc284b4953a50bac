// Command palettectl runs the DevPalette color engine from a terminal:
// conversions, variations, harmonies, combined colors, contrast checks and
// color codes, printed as truecolor swatches.
//
// Usage:
//
//	palettectl [-no-color] <command> [args]
//
// Commands:
//
//	convert <hex>                  hex, rgb and hsl of a color
//	variations <hex>               nine lightness steps
//	harmony <hex>                  complementary, triadic and analogous hues
//	combine <hex> [hex...]         average of the given colors
//	contrast <hex>                 black or white text for a background
//	format <hex> <format> [name]   hex, rgb, hsl or css-var code
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
)

var errUsage = errors.New("usage: palettectl [-no-color] <convert|variations|harmony|combine|contrast|format> <hex> [args]")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("palettectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	noColor := fs.Bool("no-color", os.Getenv("NO_COLOR") != "", "print without ANSI colors")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	color.NoColor = *noColor

	if err := dispatch(fs.Args(), stdout); err != nil {
		fmt.Fprintln(stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		return 1
	}
	return 0
}

func dispatch(args []string, w io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "convert":
		c, err := parse(rest[0])
		if err != nil {
			return err
		}
		printSwatch(w, c)
	case "variations":
		c, err := parse(rest[0])
		if err != nil {
			return err
		}
		for _, v := range colorutil.GenerateColorVariations(c.Hex) {
			printSwatch(w, v)
		}
	case "harmony":
		c, err := parse(rest[0])
		if err != nil {
			return err
		}
		for _, v := range colorutil.GenerateComplementaryColors(c.Hex) {
			printSwatch(w, v)
		}
	case "combine":
		selection := make([]colorutil.Color, 0, len(rest))
		for _, h := range rest {
			c, err := parse(h)
			if err != nil {
				return err
			}
			selection = append(selection, c)
		}
		combined, err := colorutil.Combine(selection)
		if err != nil {
			return err
		}
		printSwatch(w, colorutil.NewColor("", "Combined", combined.RGB, time.Time{}))
	case "contrast":
		c, err := parse(rest[0])
		if err != nil {
			return err
		}
		fg := colorutil.GetContrastColor(c.Hex)
		fmt.Fprintf(w, "%s  %s (brightness %.1f)\n", swatch(c.Hex, fg, " Aa "), fg, colorutil.Brightness(c.RGB))
	case "format":
		if len(rest) < 2 {
			return errUsage
		}
		c, err := parse(rest[0])
		if err != nil {
			return err
		}
		format, ok := colorutil.ParseFormat(rest[1])
		if !ok {
			return fmt.Errorf("unknown format %q (want hex, rgb, hsl or css-var)", rest[1])
		}
		name := strings.Join(rest[2:], " ")
		c.Name = name
		fmt.Fprintln(w, colorutil.FormatColorCode(c, format, ""))
	default:
		return errUsage
	}
	return nil
}

// parse strictly reads a hex argument.
func parse(arg string) (colorutil.Color, error) {
	rgb, err := colorutil.ParseHex(arg)
	if err != nil {
		return colorutil.Color{}, fmt.Errorf("%q is not a 6-digit hex color", arg)
	}
	return colorutil.NewColor("", "", rgb, time.Time{}), nil
}

func printSwatch(w io.Writer, c colorutil.Color) {
	fg := colorutil.GetContrastColor(c.Hex)
	label := " " + strings.ToUpper(c.Hex) + " "
	fmt.Fprintf(w, "%s  rgb(%3d, %3d, %3d)  hsl(%3d, %3d%%, %3d%%)  %s\n",
		swatch(c.Hex, fg, label), c.RGB.R, c.RGB.G, c.RGB.B, c.HSL.H, c.HSL.S, c.HSL.L, c.Name)
}

// swatch paints text in fgHex on a bgHex background.
func swatch(bgHex, fgHex, text string) string {
	bg := colorutil.HexToRGB(bgHex)
	fg := colorutil.HexToRGB(fgHex)
	return color.RGB(fg.R, fg.G, fg.B).AddBgRGB(bg.R, bg.G, bg.B).Sprint(text)
}
