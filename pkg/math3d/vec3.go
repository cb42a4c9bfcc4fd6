// Package math3d provides the vector and matrix primitives used by the
// wiretty geometry pipeline.
//
// Conventions: right-handed coordinates, +Y up, cameras look down -Z.
// Matrices are column-major and act on column vectors (M * v).
package math3d

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the magnitude below which matrix products are snapped to zero.
const Epsilon = 1e-6

var (
	// ErrZeroLength is returned when normalizing a vector of length zero.
	ErrZeroLength = errors.New("math3d: zero-length vector")
	// ErrDivideByZero is returned when dividing by a zero scalar.
	ErrDivideByZero = errors.New("math3d: divide by zero")
	// ErrSingular is returned when inverting a matrix with a zero determinant.
	ErrSingular = errors.New("math3d: singular matrix")
)

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

// V3 creates a new Vec3.
func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, 1, 0}
}

// Forward returns the world forward vector (0, 0, -1).
func Forward() Vec3 {
	return Vec3{0, 0, -1}
}

// Right returns the world right vector (1, 0, 0).
func Right() Vec3 {
	return Vec3{1, 0, 0}
}

// At returns component i (0=X, 1=Y, 2=Z). It panics if i is out of range.
func (a Vec3) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	case 2:
		return a.Z
	}
	panic(fmt.Sprintf("math3d: Vec3 index %d out of range", i))
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product a * b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Div returns the scalar division a / s.
func (a Vec3) Div(s float64) (Vec3, error) {
	if s == 0 {
		return Vec3{}, ErrDivideByZero
	}
	return Vec3{a.X / s, a.Y / s, a.Z / s}, nil
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// LenSq returns the squared length (faster, no sqrt).
func (a Vec3) LenSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the same direction.
// It returns ErrZeroLength for the zero vector.
func (a Vec3) Normalize() (Vec3, error) {
	l := a.Len()
	if l == 0 {
		return Vec3{}, ErrZeroLength
	}
	return Vec3{a.X / l, a.Y / l, a.Z / l}, nil
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) float64 {
	return a.Sub(b).Len()
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{
		math.Min(a.X, b.X),
		math.Min(a.Y, b.Y),
		math.Min(a.Z, b.Z),
	}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{
		math.Max(a.X, b.X),
		math.Max(a.Y, b.Y),
		math.Max(a.Z, b.Z),
	}
}

// Abs returns the component-wise absolute value.
func (a Vec3) Abs() Vec3 {
	return Vec3{
		math.Abs(a.X),
		math.Abs(a.Y),
		math.Abs(a.Z),
	}
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vec3) IsFinite() bool {
	return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z)
}

// Vec2 drops Z.
func (a Vec3) Vec2() Vec2 {
	return Vec2{a.X, a.Y}
}

// Vec4 appends w as the fourth component.
func (a Vec3) Vec4(w float64) Vec4 {
	return Vec4{a.X, a.Y, a.Z, w}
}

// Point returns the homogeneous point form (w = 1).
func (a Vec3) Point() Vec4 {
	return Vec4{a.X, a.Y, a.Z, 1}
}

func (a Vec3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", a.X, a.Y, a.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
