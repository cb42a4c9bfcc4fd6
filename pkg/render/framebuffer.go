package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// Framebuffer is a row-major grid of colors. It is the Target for both the
// terminal presenters and PNG snapshots.
type Framebuffer struct {
	Width  int     // Width in pixels
	Height int     // Height in pixels
	Pixels []Color // Row-major pixel data

	// PixelAspect is the physical width/height of one pixel. Half-block
	// terminal pixels are roughly square; a whole character cell is about
	// twice as tall as it is wide. Zero means square.
	PixelAspect float64
}

// NewFramebuffer creates a framebuffer of the given size with square pixels.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Resize changes the dimensions, reusing the pixel buffer when it is large
// enough. The contents are cleared.
func (fb *Framebuffer) Resize(width, height int) {
	n := width * height
	if cap(fb.Pixels) < n {
		fb.Pixels = make([]Color, n)
	}
	fb.Pixels = fb.Pixels[:n]
	fb.Width, fb.Height = width, height
	clear(fb.Pixels)
}

// Size reports the dimensions in pixels.
func (fb *Framebuffer) Size() (width, height int) {
	return fb.Width, fb.Height
}

// AspectRatio reports the physical width/height ratio of the whole surface.
func (fb *Framebuffer) AspectRatio() float64 {
	if fb.Height == 0 {
		return 1
	}
	a := float64(fb.Width) / float64(fb.Height)
	if fb.PixelAspect > 0 {
		a *= fb.PixelAspect
	}
	return a
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

// DrawText writes s with its top-left corner at (x, y) using a small bitmap
// font, and returns the width in pixels of what was written.
func (fb *Framebuffer) DrawText(x, y int, s string, c Color) int {
	font := &proggy.TinySZ8pt7b
	// tinyfont positions text by its baseline.
	tinyfont.WriteLine(fbDisplay{fb}, font, int16(x), int16(y+textAscent), s, c)
	w, _ := tinyfont.LineWidth(font, s)
	return int(w)
}

// TextHeight is the line height of DrawText in pixels.
const TextHeight = 10

const textAscent = 8

// fbDisplay adapts a Framebuffer to the tinyfont drawing interface.
type fbDisplay struct {
	fb *Framebuffer
}

var _ drivers.Displayer = fbDisplay{}

func (d fbDisplay) Size() (x, y int16) {
	return int16(d.fb.Width), int16(d.fb.Height)
}

func (d fbDisplay) SetPixel(x, y int16, c Color) {
	d.fb.SetPixel(int(x), int(y), c)
}

func (d fbDisplay) Display() error {
	return nil
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
// Transparent pixels are written as they are.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG writes the framebuffer as a PNG, enlarging every pixel to a
// scale x scale block.
func (fb *Framebuffer) SavePNG(path string, scale int) error {
	if scale < 1 {
		return fmt.Errorf("save png: scale %d must be at least 1", scale)
	}
	var img image.Image = fb.ToImage()
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return f.Close()
}
