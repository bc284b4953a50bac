package colorutil

import (
	"errors"
	"testing"
)

func colorFromHex(hex string) Color {
	return NewColor("", "", HexToRGB(hex), zeroTime)
}

func TestCombine_RedAndBlueRoundsHalfUp(t *testing.T) {
	got, err := Combine([]Color{colorFromHex("#ff0000"), colorFromHex("#0000ff")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 127.5 rounds away from zero to 128.
	if got.RGB != (RGB{128, 0, 128}) {
		t.Errorf("expected rgb {128 0 128}, got %+v", got.RGB)
	}
	if got.Hex != "#800080" {
		t.Errorf("expected hex #800080, got %s", got.Hex)
	}
	if got.HSL != (HSL{300, 100, 25}) {
		t.Errorf("expected hsl {300 100 25}, got %+v", got.HSL)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name  string
		hexes []string
		want  string
	}{
		{"single color is itself", []string{"#6366f1"}, "#6366f1"},
		{"black and white", []string{"#000000", "#ffffff"}, "#808080"},
		{"three colors", []string{"#ff0000", "#00ff00", "#0000ff"}, "#555555"},
		{"thirds round down", []string{"#010000", "#000000", "#000000"}, "#000000"},
		{"two thirds round up", []string{"#010000", "#010000", "#000000"}, "#010000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colors := make([]Color, len(tt.hexes))
			for i, h := range tt.hexes {
				colors[i] = colorFromHex(h)
			}
			got, err := Combine(colors)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Hex != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Hex)
			}
		})
	}
}

func TestCombine_EmptySelection(t *testing.T) {
	if _, err := Combine(nil); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
	if _, err := Combine([]Color{}); !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}
}

func TestCombine_UsesStoredRGB(t *testing.T) {
	// The aggregate reads channels, not hex strings.
	c := Color{Hex: "#ffffff", RGB: RGB{10, 20, 30}}
	got, err := Combine([]Color{c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RGB != (RGB{10, 20, 30}) {
		t.Errorf("expected channels from RGB field, got %+v", got.RGB)
	}
}
