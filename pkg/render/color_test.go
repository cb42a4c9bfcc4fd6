package render

import (
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#ff8000", RGB(255, 128, 0), false},
		{"#FFF", RGB(255, 255, 255), false},
		{"30,30,40", RGB(30, 30, 40), false},
		{" 0,255,0 ", RGB(0, 255, 0), false},
		{"#zzzzzz", Color{}, true},
		{"red", Color{}, true},
		{"1,2", Color{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			have, err := ParseColor(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if have != tc.want {
				t.Errorf("have %v, want %v", have, tc.want)
			}
		})
	}
}

func TestPalette(t *testing.T) {
	p := Palette(6)
	if len(p) != 6 {
		t.Fatalf("len = %d, want 6", len(p))
	}
	seen := make(map[Color]bool)
	for i, c := range p {
		if c.A != 255 {
			t.Errorf("color %d not opaque: %v", i, c)
		}
		if seen[c] {
			t.Errorf("color %d repeats %v", i, c)
		}
		seen[c] = true
	}
	if len(Palette(0)) != 0 {
		t.Error("Palette(0) should be empty")
	}
}

func TestBlend(t *testing.T) {
	near := func(a, b Color) bool {
		d := func(x, y uint8) int {
			if x > y {
				return int(x - y)
			}
			return int(y - x)
		}
		return d(a.R, b.R) <= 1 && d(a.G, b.G) <= 1 && d(a.B, b.B) <= 1
	}
	a, b := RGB(200, 30, 30), RGB(20, 20, 220)
	if have := Blend(a, b, 0); !near(have, a) {
		t.Errorf("t=0: have %v, want %v", have, a)
	}
	if have := Blend(a, b, 1); !near(have, b) {
		t.Errorf("t=1: have %v, want %v", have, b)
	}
	if have := Blend(a, b, 5); !near(have, b) {
		t.Errorf("t is not clamped: have %v", have)
	}
}
