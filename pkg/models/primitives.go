package models

import (
	"github.com/taigrr/wiretty/pkg/math3d"
)

// cubeVertices returns the corners of an axis-aligned cube centered at the origin.
//
//	  3-------2
//	 /|      /|
//	7-------6 |
//	| 0-----|-1
//	|/      |/
//	4-------5
func cubeVertices(size float64) []math3d.Vec3 {
	h := size / 2
	return []math3d.Vec3{
		{X: -h, Y: -h, Z: -h}, // 0: bottom-left-back
		{X: h, Y: -h, Z: -h},  // 1: bottom-right-back
		{X: h, Y: h, Z: -h},   // 2: top-right-back
		{X: -h, Y: h, Z: -h},  // 3: top-left-back
		{X: -h, Y: -h, Z: h},  // 4: bottom-left-front
		{X: h, Y: -h, Z: h},   // 5: bottom-right-front
		{X: h, Y: h, Z: h},    // 6: top-right-front
		{X: -h, Y: h, Z: h},   // 7: top-left-front
	}
}

// Cube returns a cube with the given edge length as 12 line segments.
func Cube(size float64) *Model {
	return MustNew(cubeVertices(size), []int{
		// Back face
		0, 1, 1, 2, 2, 3, 3, 0,
		// Front face
		4, 5, 5, 6, 6, 7, 7, 4,
		// Connecting edges
		0, 4, 1, 5, 2, 6, 3, 7,
	}, Lines).Named("cube")
}

// CubeFaces returns a cube with the given edge length as 12 triangles
// wound counter-clockwise when seen from outside.
func CubeFaces(size float64) *Model {
	return MustNew(cubeVertices(size), []int{
		4, 5, 6, 4, 6, 7, // front  (+Z)
		1, 0, 3, 1, 3, 2, // back   (-Z)
		5, 1, 2, 5, 2, 6, // right  (+X)
		0, 4, 7, 0, 7, 3, // left   (-X)
		7, 6, 2, 7, 2, 3, // top    (+Y)
		0, 1, 5, 0, 5, 4, // bottom (-Y)
	}, Triangles).Named("cube")
}

// Axes returns three segments from the origin along +X, +Y and +Z.
func Axes(length float64) *Model {
	return MustNew([]math3d.Vec3{
		math3d.Zero3(),
		math3d.V3(length, 0, 0),
		math3d.V3(0, length, 0),
		math3d.V3(0, 0, length),
	}, []int{0, 1, 0, 2, 0, 3}, Lines).Named("axes")
}

// Grid returns a square grid on the XZ plane at y=0, size units across,
// with the given number of cells per side (at least one).
func Grid(size float64, divisions int) *Model {
	divisions = max(divisions, 1)
	half := size / 2
	step := size / float64(divisions)

	vertices := make([]math3d.Vec3, 0, 4*(divisions+1))
	indices := make([]int, 0, 4*(divisions+1))
	for i := 0; i <= divisions; i++ {
		o := -half + step*float64(i)
		n := len(vertices)
		vertices = append(vertices,
			math3d.V3(o, 0, -half), math3d.V3(o, 0, half), // along Z
			math3d.V3(-half, 0, o), math3d.V3(half, 0, o), // along X
		)
		indices = append(indices, n, n+1, n+2, n+3)
	}
	return MustNew(vertices, indices, Lines).Named("grid")
}

// PointCloud returns a Points model drawing every vertex once.
func PointCloud(points []math3d.Vec3) *Model {
	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	return MustNew(points, indices, Points).Named("points")
}

// Octahedron returns an octahedron whose vertices sit size/2 from the origin.
func Octahedron(size float64) *Model {
	h := size / 2
	return MustNew([]math3d.Vec3{
		math3d.V3(h, 0, 0), math3d.V3(-h, 0, 0),
		math3d.V3(0, h, 0), math3d.V3(0, -h, 0),
		math3d.V3(0, 0, h), math3d.V3(0, 0, -h),
	}, []int{
		0, 2, 4, 4, 2, 1, 1, 2, 5, 5, 2, 0,
		4, 3, 0, 1, 3, 4, 5, 3, 1, 0, 3, 5,
	}, Triangles).Named("octahedron")
}
