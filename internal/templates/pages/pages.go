// Package pages holds the server-rendered HTML pages. The application is
// API-first; these cover the landing page and error responses for browser
// requests.
package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/devpalette/internal/colorutil"
	"github.com/keyxmakerx/devpalette/internal/templates/layouts"
)

// DefaultBase is the color the generator starts from.
const DefaultBase = "#6366f1"

// endpoints lists the public API on the landing page.
var endpoints = []struct{ Method, Path, Summary string }{
	{"GET", "/api/v1/generate/variations?base=", "nine lightness steps of a base color"},
	{"GET", "/api/v1/generate/harmony?base=", "complementary, triadic and analogous colors"},
	{"GET", "/api/v1/generate/convert?hex=", "hex, rgb and hsl of a color"},
	{"GET", "/api/v1/generate/contrast?hex=", "readable text color for a background"},
	{"POST", "/api/v1/generate/combine", "average of up to three colors"},
}

// Landing renders the home page with a live strip of variations of base.
func Landing(base string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeHead(&b, "DevPalette")

		b.WriteString(`<header><h1>DevPalette</h1>`)
		if layouts.IsAuthenticated(ctx) {
			fmt.Fprintf(&b, `<p class="greeting">Signed in as %s</p>`, templ.EscapeString(layouts.GetUserName(ctx)))
		}
		b.WriteString(`</header><main>`)

		b.WriteString(`<section class="swatches">`)
		for _, c := range colorutil.GenerateColorVariations(base) {
			writeSwatch(&b, c)
		}
		b.WriteString(`</section>`)

		b.WriteString(`<section><h2>API</h2><ul>`)
		for _, e := range endpoints {
			fmt.Fprintf(&b, `<li><code>%s %s</code> %s</li>`,
				e.Method, templ.EscapeString(e.Path), templ.EscapeString(e.Summary))
		}
		b.WriteString(`</ul></section></main></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorPage renders a minimal HTML error page.
func ErrorPage(code int, message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeHead(&b, fmt.Sprintf("%d | DevPalette", code))
		fmt.Fprintf(&b, `<main class="error"><h1>%d</h1><p>%s</p><a href="/">Back to DevPalette</a></main></body></html>`,
			code, templ.EscapeString(message))
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeHead(b *strings.Builder, title string) {
	fmt.Fprintf(b, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
		`<meta name="viewport" content="width=device-width, initial-scale=1">`+
		`<title>%s</title>`+
		`<style>body{font-family:system-ui,sans-serif;background:#22223b;color:#f2e9e4;margin:2rem}`+
		`.swatches{display:flex;gap:.5rem;flex-wrap:wrap}`+
		`.swatch{width:5rem;height:5rem;border-radius:.5rem;display:flex;align-items:flex-end;justify-content:center;font-size:.7rem;padding:.25rem}`+
		`code{background:#4a4e69;padding:.1rem .3rem;border-radius:.25rem}</style></head><body>`,
		templ.EscapeString(title))
}

func writeSwatch(b *strings.Builder, c colorutil.Color) {
	fmt.Fprintf(b, `<div class="swatch" style="background:%s;color:%s" title="%s">%s</div>`,
		c.Hex, colorutil.GetContrastColor(c.Hex),
		templ.EscapeString(c.Name),
		colorutil.FormatColorCode(c, colorutil.FormatHex, ""))
}
