package render

import (
	"github.com/taigrr/wiretty/pkg/math3d"
)

// Plane is Ax + By + Cz + D = 0 with (A, B, C) as Normal.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// normalized scales the plane so the normal has unit length. Degenerate
// planes are returned unchanged.
func (p Plane) normalized() Plane {
	n := p.Normal.Len()
	if n == 0 {
		return p
	}
	return Plane{Normal: p.Normal.Scale(1 / n), D: p.D / n}
}

// Distance returns the signed distance from the plane to a point.
// Positive means the point is on the side the normal points to.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes ordered
// Left, Right, Bottom, Top, Near, Far.
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a combined matrix with
// the Gribb/Hartmann method. The planes live in the input space of m: pass
// projection*view for world space or projection*view*model for the local
// space of one object.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// Row i, column j of the column-major matrix is m[i+j*4].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r0, d0 := row(0)
	r1, d1 := row(1)
	r2, d2 := row(2)
	r3, d3 := row(3)

	var f Frustum
	f.Planes[FrustumLeft] = Plane{r3.Add(r0), d3 + d0}.normalized()
	f.Planes[FrustumRight] = Plane{r3.Sub(r0), d3 - d0}.normalized()
	f.Planes[FrustumBottom] = Plane{r3.Add(r1), d3 + d1}.normalized()
	f.Planes[FrustumTop] = Plane{r3.Sub(r1), d3 - d1}.normalized()
	f.Planes[FrustumNear] = Plane{r3.Add(r2), d3 + d2}.normalized()
	f.Planes[FrustumFar] = Plane{r3.Sub(r2), d3 - d2}.normalized()
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// Center returns the center of the box.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the edge lengths of the box.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Corners returns the eight corners of the box.
func (b AABB) Corners() [8]math3d.Vec3 {
	var c [8]math3d.Vec3
	for i := range c {
		c[i] = math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		)
	}
	return c
}

// Transform returns the box enclosing all eight transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := b.Corners()
	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p lies inside the box, boundary included.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB reports whether any part of the box may be inside the
// frustum. For each plane only the corner furthest along the normal is
// tested; if even that corner is outside, the whole box is.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		p := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether the box is entirely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for _, plane := range f.Planes {
		n := math3d.V3(
			pick(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			pick(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			pick(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if plane.Distance(n) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside all six planes.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.Distance(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere touches the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, plane := range f.Planes {
		if plane.Distance(center) < -radius {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
