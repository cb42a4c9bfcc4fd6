package render

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
)

// CellMode selects how framebuffer pixels are packed into terminal cells.
type CellMode int

const (
	// HalfBlock packs two vertically stacked pixels into each cell using
	// the upper half block, fg = top pixel and bg = bottom pixel.
	HalfBlock CellMode = iota
	// Glyph draws one pixel per cell as a character.
	Glyph
)

func (m CellMode) String() string {
	if m == Glyph {
		return "glyph"
	}
	return "half-block"
}

// DefaultGlyph is the character used for lit pixels in Glyph mode.
const DefaultGlyph = "#"

// Presenter converts a framebuffer into terminal cells.
type Presenter struct {
	Mode CellMode

	// Glyph is drawn for lit pixels in Glyph mode. Empty means DefaultGlyph.
	Glyph string

	// Background is the color of unlit cells in Glyph mode. Pixels equal
	// to it, or fully transparent, are left blank.
	Background Color
}

// FramebufferSize returns the framebuffer dimensions that exactly cover
// cols x rows cells.
func (p Presenter) FramebufferSize(cols, rows int) (width, height int) {
	if p.Mode == Glyph {
		return cols, rows
	}
	return cols, rows * 2
}

// PixelAspect returns the physical width/height of one pixel, assuming a
// cell about twice as tall as it is wide.
func (p Presenter) PixelAspect() float64 {
	if p.Mode == Glyph {
		return 0.5
	}
	return 1
}

// NewFramebuffer allocates a framebuffer covering cols x rows cells.
func (p Presenter) NewFramebuffer(cols, rows int) *Framebuffer {
	fb := NewFramebuffer(p.FramebufferSize(cols, rows))
	fb.PixelAspect = p.PixelAspect()
	return fb
}

// Draw converts fb to terminal cells and draws them into area of scr.
func (p Presenter) Draw(scr uv.Screen, area uv.Rectangle, fb *Framebuffer) {
	if p.Mode == Glyph {
		p.drawGlyphs(scr, area, fb)
		return
	}

	// Each terminal row represents 2 framebuffer rows
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

func (p Presenter) drawGlyphs(scr uv.Screen, area uv.Rectangle, fb *Framebuffer) {
	glyph := p.Glyph
	if glyph == "" {
		glyph = DefaultGlyph
	}
	bg := rgbaToColor(p.Background)

	for row := area.Min.Y; row < area.Max.Y; row++ {
		y := row - area.Min.Y
		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			c := fb.GetPixel(x, y)
			cell := &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: bg}}
			if c.A != 0 && c != p.Background {
				cell.Content = glyph
				cell.Style.Fg = c
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// Text returns fb as plain text with one character per pixel and one line
// per row, using the glyph for lit pixels. Colors are dropped.
func (p Presenter) Text(fb *Framebuffer) string {
	glyph := p.Glyph
	if glyph == "" {
		glyph = DefaultGlyph
	}
	var sb strings.Builder
	sb.Grow((fb.Width + 1) * fb.Height)
	for y := range fb.Height {
		for x := range fb.Width {
			if c := fb.GetPixel(x, y); c.A != 0 && c != p.Background {
				sb.WriteString(glyph)
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c Color) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// TerminalRenderer owns the terminal for the lifetime of a viewer session:
// Open takes it over, Close restores it.
type TerminalRenderer struct {
	Presenter

	term          *uv.Terminal
	width, height int
	open          bool
}

// NewTerminalRenderer wraps term. Nothing is written until Open.
func NewTerminalRenderer(term *uv.Terminal, p Presenter) *TerminalRenderer {
	return &TerminalRenderer{Presenter: p, term: term}
}

// Open starts the terminal, switches to the alternate screen and hides
// the cursor.
func (t *TerminalRenderer) Open() error {
	width, height, err := t.term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := t.term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	t.open = true
	t.term.EnterAltScreen()
	t.term.HideCursor()
	t.Resize(width, height)
	return nil
}

// Close restores the terminal. It is safe to call more than once.
func (t *TerminalRenderer) Close() error {
	if !t.open {
		return nil
	}
	t.open = false
	t.term.ExitAltScreen()
	t.term.ShowCursor()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	return t.term.Shutdown(ctx)
}

// Resize records a new terminal size in cells and clears the screen.
func (t *TerminalRenderer) Resize(cols, rows int) {
	t.width, t.height = cols, rows
	t.term.Erase()
	t.term.Resize(cols, rows)
}

// Size returns the terminal size in cells.
func (t *TerminalRenderer) Size() (cols, rows int) {
	return t.width, t.height
}

// Events returns the terminal input event channel.
func (t *TerminalRenderer) Events() <-chan uv.Event {
	return t.term.Events()
}

// Framebuffer allocates a framebuffer covering the whole terminal.
func (t *TerminalRenderer) Framebuffer() *Framebuffer {
	return t.NewFramebuffer(t.width, t.height)
}

// Render copies fb into the terminal's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	t.Draw(t.term, uv.Rect(0, 0, t.width, t.height), fb)
}

// Flush writes pending cell changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}
