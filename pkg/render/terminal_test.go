package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestPresenterSizes(t *testing.T) {
	tests := []struct {
		mode         CellMode
		wantW, wantH int
		aspect       float64
	}{
		{HalfBlock, 80, 48, 1},
		{Glyph, 80, 24, 0.5},
	}
	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			p := Presenter{Mode: tc.mode}
			w, h := p.FramebufferSize(80, 24)
			if w != tc.wantW || h != tc.wantH {
				t.Errorf("FramebufferSize = %d x %d, want %d x %d", w, h, tc.wantW, tc.wantH)
			}
			fb := p.NewFramebuffer(80, 24)
			if fb.PixelAspect != tc.aspect {
				t.Errorf("PixelAspect = %v, want %v", fb.PixelAspect, tc.aspect)
			}
			// Both modes describe the same physical 80x24 cell area.
			if have, want := fb.AspectRatio(), 80.0/48; have != want {
				t.Errorf("AspectRatio = %v, want %v", have, want)
			}
		})
	}
}

func TestPresenterHalfBlock(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorBlue)
	fb.SetPixel(1, 3, ColorGreen)

	scr := uv.NewScreenBuffer(2, 2)
	Presenter{}.Draw(scr, scr.Bounds(), fb)

	top := scr.CellAt(0, 0)
	if top == nil || top.Content != "▀" {
		t.Fatalf("cell (0,0) = %+v", top)
	}
	if top.Style.Fg != ColorRed || top.Style.Bg != ColorBlue {
		t.Errorf("cell (0,0) fg %v bg %v, want red over blue", top.Style.Fg, top.Style.Bg)
	}
	if c := scr.CellAt(1, 1); c.Style.Fg != nil || c.Style.Bg != ColorGreen {
		t.Errorf("cell (1,1) fg %v bg %v, want transparent over green", c.Style.Fg, c.Style.Bg)
	}
}

func TestPresenterGlyph(t *testing.T) {
	bg := RGB(30, 30, 40)
	fb := NewFramebuffer(3, 1)
	fb.Clear(bg)
	fb.SetPixel(1, 0, ColorYellow)

	scr := uv.NewScreenBuffer(3, 1)
	Presenter{Mode: Glyph, Background: bg}.Draw(scr, scr.Bounds(), fb)

	if c := scr.CellAt(1, 0); c.Content != DefaultGlyph || c.Style.Fg != ColorYellow {
		t.Errorf("lit cell = %q fg %v", c.Content, c.Style.Fg)
	}
	for _, x := range []int{0, 2} {
		if c := scr.CellAt(x, 0); c.Content != " " || c.Style.Bg != bg {
			t.Errorf("cell %d = %q bg %v, want blank background", x, c.Content, c.Style.Bg)
		}
	}
}

func TestPresenterText(t *testing.T) {
	bg := RGB(30, 30, 40)
	fb := NewFramebuffer(4, 2)
	fb.Clear(bg)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(3, 1, ColorGreen)

	have := Presenter{Mode: Glyph, Background: bg}.Text(fb)
	if want := "#   \n   #\n"; have != want {
		t.Errorf("have %q, want %q", have, want)
	}
}
