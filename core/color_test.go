package core

import (
	"errors"
	"testing"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		name     string
		c0, c1   string
		fraction float64
		want     Color
	}{
		{"start", "#102030", "#f0e0d0", 0, 0x102030},
		{"end", "#102030", "#f0e0d0", 1, 0xf0e0d0},
		{"black to white half rounds up", "#000000", "#ffffff", 0.5, 0x808080},
		{"white to black half rounds up", "#ffffff", "#000000", 0.5, 0x808080},
		{"quarter red to blue", "#ff0000", "#0000ff", 0.25, 0xbf0040},
		{"short form", "#000", "#fff", 1, 0xffffff},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Blend(tc.c0, tc.c1, tc.fraction)
			if err != nil {
				t.Fatalf("Blend: %v", err)
			}
			if got != tc.want {
				t.Errorf("Blend(%s, %s, %v) = %v, want %v", tc.c0, tc.c1, tc.fraction, got, tc.want)
			}
		})
	}
}

func TestBlendIdentity(t *testing.T) {
	for _, c := range []string{"#000000", "#ffffff", "#3a7bd5", "#ff0080"} {
		want, err := HexStringToInt(c)
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range []float64{0, 0.13, 0.5, 0.99, 1} {
			got, err := Blend(c, c, f)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("Blend(%s, %s, %v) = %v, want %v", c, c, f, got, want)
			}
		}
	}
}

func TestBlendInvalid(t *testing.T) {
	if _, err := Blend("red", "#ffffff", 0.5); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("got %v, want ErrInvalidColor", err)
	}
	if _, err := Blend("#ffffff", "#12345", 0.5); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("got %v, want ErrInvalidColor", err)
	}
}

func TestHexStringToInt(t *testing.T) {
	got, err := HexStringToInt("#ff8800")
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xff8800 {
		t.Errorf("got %v, want 0xff8800", got)
	}

	for _, bad := range []string{"", "#", "#zzzzzz", "#1000000"} {
		if _, err := HexStringToInt(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("HexStringToInt(%q) error = %v, want ErrInvalidColor", bad, err)
		}
	}
}

func TestColorFormatting(t *testing.T) {
	c := Color(0x3a7bd5)
	if h := c.Hex(); h != "#3a7bd5" {
		t.Errorf("Hex() = %q", h)
	}
	if s := c.String(); s != "0x3a7bd5" {
		t.Errorf("String() = %q", s)
	}
	r, g, b := c.RGB()
	if r != 0x3a || g != 0x7b || b != 0xd5 {
		t.Errorf("RGB() = %x %x %x", r, g, b)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ff8800", 0xff8800},
		{"#fff", 0xffffff},
		{"#f80", 0xff8800},
		{"#000000", 0x000000},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseColor(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}

	for _, bad := range []string{"", "ff8800", "#zzz", "#12345"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", bad, err)
		}
	}
}

func TestParseColorMatchesBlendEndpoints(t *testing.T) {
	for _, s := range []string{"#fff", "#3a7bd5", "#0f0"} {
		parsed, err := ParseColor(s)
		if err != nil {
			t.Fatal(err)
		}
		blended, err := Blend(s, "#000000", 0)
		if err != nil {
			t.Fatal(err)
		}
		if parsed != blended {
			t.Errorf("%s: ParseColor %v, Blend at 0 %v", s, parsed, blended)
		}
	}
}
