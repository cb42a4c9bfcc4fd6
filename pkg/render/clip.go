package render

import (
	"github.com/taigrr/wiretty/pkg/math3d"
)

// Outcode bits for Cohen-Sutherland clipping against [0,width] x [0,height].
// Screen Y grows downward, so OutTop marks y < 0.
const (
	OutLeft   = 1 << iota // x < 0
	OutRight              // x > width
	OutTop                // y < 0
	OutBottom             // y > height
)

// maxEdgeClips bounds the clip loop. Each endpoint can cross at most one
// vertical and one horizontal edge.
const maxEdgeClips = 4

// Outcode classifies a point against the viewport [0,width] x [0,height].
func Outcode(x, y, width, height float64) int {
	code := 0
	if x < 0 {
		code |= OutLeft
	} else if x > width {
		code |= OutRight
	}
	if y < 0 {
		code |= OutTop
	} else if y > height {
		code |= OutBottom
	}
	return code
}

// ClipLine clips the segment (x0,y0)-(x1,y1) to the viewport using
// Cohen-Sutherland. ok is false when no part of the segment is visible.
func ClipLine(x0, y0, x1, y1, width, height float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	code0 := Outcode(x0, y0, width, height)
	code1 := Outcode(x1, y1, width, height)

	for clips := 0; ; clips++ {
		if code0|code1 == 0 {
			return x0, y0, x1, y1, true
		}
		if code0&code1 != 0 || clips == maxEdgeClips {
			return 0, 0, 0, 0, false
		}

		codeOut := code0
		if codeOut == 0 {
			codeOut = code1
		}

		// The outcode bit guarantees the denominator is nonzero.
		var x, y float64
		switch {
		case codeOut&OutTop != 0:
			x = x0 + (x1-x0)*(0-y0)/(y1-y0)
			y = 0
		case codeOut&OutBottom != 0:
			x = x0 + (x1-x0)*(height-y0)/(y1-y0)
			y = height
		case codeOut&OutRight != 0:
			y = y0 + (y1-y0)*(width-x0)/(x1-x0)
			x = width
		case codeOut&OutLeft != 0:
			y = y0 + (y1-y0)*(0-x0)/(x1-x0)
			x = 0
		}

		if codeOut == code0 {
			x0, y0 = x, y
			code0 = Outcode(x0, y0, width, height)
		} else {
			x1, y1 = x, y
			code1 = Outcode(x1, y1, width, height)
		}
	}
}

// nearDistance and farDistance are signed distances to the clip-space
// planes z = -w and z = w; non-negative means inside.
func nearDistance(v math3d.Vec4) float64 { return v.Z + v.W }
func farDistance(v math3d.Vec4) float64  { return v.W - v.Z }

// clipDepth clips a clip-space segment against the near and far planes
// before the perspective divide. Endpoints behind the camera have negative
// w and would otherwise mirror through the projection center.
func clipDepth(a, b math3d.Vec4) (math3d.Vec4, math3d.Vec4, bool) {
	for _, dist := range [2]func(math3d.Vec4) float64{nearDistance, farDistance} {
		da, db := dist(a), dist(b)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			a = a.Lerp(b, da/(da-db))
		case db < 0:
			b = b.Lerp(a, db/(db-da))
		}
	}
	return a, b, true
}
