// Package render turns scene objects into plotted pixels: the camera
// transform chain, clip-space and viewport clipping, DDA line stepping and
// the display surfaces that receive the result.
package render

import (
	"math"
)

// Target is a pixel surface the rasterizer plots into.
type Target interface {
	Size() (width, height int)
	SetPixel(x, y int, c Color)
}

// Sink receives screen-space primitives from a Camera. Coordinates are in
// pixels with the origin at the top-left corner and Y growing downward.
type Sink interface {
	Size() (width, height int)
	DrawPoint(x, y float64, c Color)
	DrawLine(x0, y0, x1, y1 float64, c Color)
}

// aspecter is implemented by surfaces whose pixels are not square.
type aspecter interface {
	AspectRatio() float64
}

// Rasterizer is the viewport clipper and line stepper. It implements Sink
// on top of any Target.
type Rasterizer struct {
	target Target

	// Default replaces zero (fully transparent) colors.
	Default Color

	Stats RasterStats // Statistics for debugging/benchmarking
}

// RasterStats counts what reached the target since the last reset.
type RasterStats struct {
	Points        int // Points plotted
	PointsDropped int // Points outside the viewport or non-finite
	LinesAccepted int // Segments drawn without clipping
	LinesClipped  int // Segments shortened by the viewport clip
	LinesRejected int // Segments entirely outside or non-finite
	Pixels        int // Pixels written by line drawing
}

// NewRasterizer creates a rasterizer drawing into t.
func NewRasterizer(t Target) *Rasterizer {
	return &Rasterizer{
		target:  t,
		Default: ColorWhite,
	}
}

// Target returns the surface being drawn into.
func (r *Rasterizer) Target() Target {
	return r.target
}

// SetTarget swaps the surface, for example after a resize.
func (r *Rasterizer) SetTarget(t Target) {
	r.target = t
}

// ResetStats clears the statistics (call once per frame).
func (r *Rasterizer) ResetStats() {
	r.Stats = RasterStats{}
}

// Size reports the target dimensions.
func (r *Rasterizer) Size() (width, height int) {
	if r.target == nil {
		return 0, 0
	}
	return r.target.Size()
}

// AspectRatio reports the physical width/height ratio of the target,
// deferring to the target when it knows better than its pixel counts.
func (r *Rasterizer) AspectRatio() float64 {
	if a, ok := r.target.(aspecter); ok {
		return a.AspectRatio()
	}
	w, h := r.Size()
	if h == 0 {
		return 1
	}
	return float64(w) / float64(h)
}

// DrawPoint plots a single pixel if it lies inside the viewport.
func (r *Rasterizer) DrawPoint(x, y float64, c Color) {
	w, h := r.Size()
	if !finite(x, y) || Outcode(x, y, float64(w), float64(h)) != 0 {
		r.Stats.PointsDropped++
		return
	}
	if r.plot(int(math.Floor(x)), int(math.Floor(y)), w, h, r.color(c)) {
		r.Stats.Points++
	} else {
		r.Stats.PointsDropped++
	}
}

// DrawLine clips the segment to the viewport and steps along it.
func (r *Rasterizer) DrawLine(x0, y0, x1, y1 float64, c Color) {
	if !finite(x0, y0, x1, y1) {
		r.Stats.LinesRejected++
		return
	}
	w, h := r.Size()
	cx0, cy0, cx1, cy1, ok := ClipLine(x0, y0, x1, y1, float64(w), float64(h))
	if !ok {
		r.Stats.LinesRejected++
		return
	}
	if cx0 != x0 || cy0 != y0 || cx1 != x1 || cy1 != y1 {
		r.Stats.LinesClipped++
	} else {
		r.Stats.LinesAccepted++
	}

	c = r.color(c)
	DDA(cx0, cy0, cx1, cy1, func(x, y int) {
		if r.plot(x, y, w, h, c) {
			r.Stats.Pixels++
		}
	})
}

func (r *Rasterizer) plot(x, y, w, h int, c Color) bool {
	// The clip rectangle is closed, so x == w can survive it.
	if x < 0 || x >= w || y < 0 || y >= h {
		return false
	}
	r.target.SetPixel(x, y, c)
	return true
}

func (r *Rasterizer) color(c Color) Color {
	if c.A == 0 {
		return r.Default
	}
	return c
}

// DDA steps from (x0,y0) to (x1,y1) one unit at a time along the dominant
// axis, advancing the minor axis fractionally, and calls plot for every
// pixel. A zero-length segment plots exactly one pixel. It returns the
// number of plot calls.
func DDA(x0, y0, x1, y1 float64, plot func(x, y int)) int {
	dx := x1 - x0
	dy := y1 - y0
	steps := math.Max(math.Abs(dx), math.Abs(dy))

	n := int(steps)
	if n == 0 {
		plot(int(math.Floor(x0)), int(math.Floor(y0)))
		return 1
	}

	xInc := dx / steps
	yInc := dy / steps
	for i := 0; i <= n; i++ {
		fi := float64(i)
		plot(int(math.Floor(x0+xInc*fi)), int(math.Floor(y0+yInc*fi)))
	}
	return n + 1
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
