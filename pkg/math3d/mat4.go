package math3d

import (
	"fmt"
	"math"
	"strings"
)

// Mat4 is a 4x4 matrix stored in column-major order.
// This matches OpenGL conventions for easier reasoning about transforms.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For a transform matrix:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		v.X, v.Y, v.Z, 1,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
// Positive angles turn +Y toward +Z.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
// Positive angles turn +Z toward +X.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
// Positive angles turn +X toward +Y.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateEuler combines Euler angles (radians) as RotateY(yaw) * RotateX(pitch) * RotateZ(roll):
// roll is applied first, yaw last.
func RotateEuler(pitch, yaw, roll float64) Mat4 {
	return RotateY(yaw).Mul(RotateX(pitch)).Mul(RotateZ(roll))
}

// Rotate creates a rotation matrix around an arbitrary axis (Rodrigues' formula).
// The axis does not need to be unit length but must not be zero.
func Rotate(axis Vec3, angle float64) (Mat4, error) {
	axis, err := axis.Normalize()
	if err != nil {
		return Identity(), fmt.Errorf("rotation axis: %w", err)
	}
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}, nil
}

// FromQuaternion creates a rotation matrix from the quaternion (x, y, z, w).
// The quaternion is normalized first; a zero quaternion yields the identity.
func FromQuaternion(x, y, z, w float64) Mat4 {
	n := math.Sqrt(x*x + y*y + z*z + w*w)
	if n == 0 {
		return Identity()
	}
	x, y, z, w = x/n, y/n, z/n, w/n

	return Mat4{
		1 - 2*(y*y+z*z), 2 * (x*y + z*w), 2 * (x*z - y*w), 0,
		2 * (x*y - z*w), 1 - 2*(x*x+z*z), 2 * (y*z + x*w), 0,
		2 * (x*z + y*w), 2 * (y*z - x*w), 1 - 2*(x*x+y*y), 0,
		0, 0, 0, 1,
	}
}

// LookAt creates a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) (Mat4, error) {
	f, err := center.Sub(eye).Normalize() // Forward
	if err != nil {
		return Identity(), fmt.Errorf("look direction: %w", err)
	}
	s, err := f.Cross(up).Normalize() // Right
	if err != nil {
		return Identity(), fmt.Errorf("up parallel to look direction: %w", err)
	}
	u := s.Cross(f) // Up (recomputed)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}, nil
}

// Perspective creates a perspective projection matrix.
// fovy is vertical field of view in radians.
// aspect is width/height.
// near and far are clipping planes; z in [-near, -far] maps to NDC [-1, 1].
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Orthographic creates an orthographic projection matrix.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// snap clears values within Epsilon of zero so transform chains
// don't accumulate floating point noise.
func snap(v float64) float64 {
	if v >= -Epsilon && v <= Epsilon {
		return 0
	}
	return v
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = snap(sum)
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		snap(m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W),
		snap(m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W),
		snap(m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W),
		snap(m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W),
	}
}

// MulVec3 transforms a Vec3 as a point (w=1) and drops the resulting w.
// Use MulVec4 when the projective part matters.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(v.Point()).Vec3()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(v.Vec4(0)).Vec3()
}

// MulScalar multiplies every element by s.
func (m Mat4) MulScalar(s float64) Mat4 {
	for i := range m {
		m[i] *= s
	}
	return m
}

// Div divides every element by s.
func (m Mat4) Div(s float64) (Mat4, error) {
	if s == 0 {
		return Mat4{}, ErrDivideByZero
	}
	return m.MulScalar(1 / s), nil
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// rows returns the matrix as row-major [row][col].
func (m Mat4) rows() [4][4]float64 {
	var r [4][4]float64
	for row := range 4 {
		for col := range 4 {
			r[row][col] = m[row+col*4]
		}
	}
	return r
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	a := m.rows()
	det := 1.0
	for p := range 4 {
		pivot := p
		for r := p + 1; r < 4; r++ {
			if math.Abs(a[r][p]) > math.Abs(a[pivot][p]) {
				pivot = r
			}
		}
		if a[pivot][p] == 0 {
			return 0
		}
		if pivot != p {
			a[p], a[pivot] = a[pivot], a[p]
			det = -det
		}
		det *= a[p][p]
		for r := p + 1; r < 4; r++ {
			f := a[r][p] / a[p][p]
			for c := p; c < 4; c++ {
				a[r][c] -= f * a[p][c]
			}
		}
	}
	return det
}

// Inverse returns the inverse of the matrix using Gauss-Jordan elimination
// with partial pivoting. It returns ErrSingular when no inverse exists.
func (m Mat4) Inverse() (Mat4, error) {
	a := m.rows()
	inv := Identity().rows()

	for p := range 4 {
		pivot := p
		for r := p + 1; r < 4; r++ {
			if math.Abs(a[r][p]) > math.Abs(a[pivot][p]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][p]) < 1e-12 {
			return Identity(), ErrSingular
		}
		a[p], a[pivot] = a[pivot], a[p]
		inv[p], inv[pivot] = inv[pivot], inv[p]

		d := a[p][p]
		for c := range 4 {
			a[p][c] /= d
			inv[p][c] /= d
		}
		for r := range 4 {
			if r == p || a[r][p] == 0 {
				continue
			}
			f := a[r][p]
			for c := range 4 {
				a[r][c] -= f * a[p][c]
				inv[r][c] -= f * inv[p][c]
			}
		}
	}

	var out Mat4
	for row := range 4 {
		for col := range 4 {
			out[row+col*4] = snap(inv[row][col])
		}
	}
	return out, nil
}

// Get returns the element at (row, col). It panics if either index is out of range.
func (m Mat4) Get(row, col int) float64 {
	checkIndex(row, col)
	return m[row+col*4]
}

// Set sets the element at (row, col). It panics if either index is out of range.
func (m *Mat4) Set(row, col int, val float64) {
	checkIndex(row, col)
	m[row+col*4] = val
}

func checkIndex(row, col int) {
	if row < 0 || row > 3 || col < 0 || col > 3 {
		panic(fmt.Sprintf("math3d: Mat4 index (%d, %d) out of range", row, col))
	}
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// SetTranslation sets the translation component.
func (m *Mat4) SetTranslation(v Vec3) {
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
}

// ApproxEqual reports whether every element of a and b differs by at most tol.
func (a Mat4) ApproxEqual(b Mat4, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

// String formats the matrix row by row.
func (m Mat4) String() string {
	var sb strings.Builder
	for row := range 4 {
		fmt.Fprintf(&sb, "[ %9.4f %9.4f %9.4f %9.4f ]", m[row], m[row+4], m[row+8], m[row+12])
		if row < 3 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
