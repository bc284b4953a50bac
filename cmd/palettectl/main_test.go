package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCmd(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	code = run(append([]string{"-no-color"}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestRun_Convert(t *testing.T) {
	out, _, code := runCmd("convert", "6366f1")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	want := " #6366F1   rgb( 99, 102, 241)  hsl(239,  84%,  67%)  \n"
	if out != want {
		t.Errorf("unexpected output\n got %q\nwant %q", out, want)
	}
}

func TestRun_VariationsAndHarmony(t *testing.T) {
	out, _, code := runCmd("variations", "#6366f1")
	if code != 0 || strings.Count(out, "\n") != 9 {
		t.Fatalf("expected 9 lines, got %d (exit %d)", strings.Count(out, "\n"), code)
	}
	if !strings.Contains(out, "Variation -4") || !strings.Contains(out, "Variation 4") {
		t.Errorf("expected variation names, got %s", out)
	}

	out, _, _ = runCmd("harmony", "#ff0000")
	if !strings.Contains(out, "#00FFFF") || !strings.Contains(out, "Complementary") {
		t.Errorf("expected complementary cyan, got %s", out)
	}
}

func TestRun_Combine(t *testing.T) {
	out, _, code := runCmd("combine", "#ff0000", "#0000ff")
	if code != 0 || !strings.Contains(out, "#800080") {
		t.Errorf("expected purple, got %q (exit %d)", out, code)
	}
}

func TestRun_ContrastAndFormat(t *testing.T) {
	out, _, _ := runCmd("contrast", "#ffff00")
	if !strings.Contains(out, "#000000") {
		t.Errorf("expected black text on yellow, got %q", out)
	}

	out, _, _ = runCmd("format", "#87CEEB", "css-var", "Sky", "Blue")
	if out != "--sky-blue: #87ceeb;\n" {
		t.Errorf("unexpected css var %q", out)
	}

	out, _, _ = runCmd("format", "#87ceeb", "hsl")
	if out != "hsl(197, 71%, 73%)\n" {
		t.Errorf("unexpected hsl %q", out)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := [][]string{
		{},
		{"convert"},
		{"convert", "#fff"},
		{"paint", "#ffffff"},
		{"format", "#ffffff"},
		{"format", "#ffffff", "cmyk"},
		{"combine", "#ffffff", "nope"},
	}
	for _, args := range tests {
		_, errOut, code := runCmd(args...)
		if code != 1 {
			t.Errorf("%v: expected exit 1, got %d", args, code)
		}
		if !strings.Contains(errOut, "error: ") {
			t.Errorf("%v: expected an error message, got %q", args, errOut)
		}
	}
}
