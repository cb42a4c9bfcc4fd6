package math3d

import (
	"fmt"
	"math"
)

// Vec2 represents a 2D vector, typically a screen-space position.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// At returns component i (0=X, 1=Y). It panics if i is out of range.
func (a Vec2) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	}
	panic(fmt.Sprintf("math3d: Vec2 index %d out of range", i))
}

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

func (a Vec2) Negate() Vec2 {
	return Vec2{-a.X, -a.Y}
}

func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Div returns a / s, or ErrDivideByZero.
func (a Vec2) Div(s float64) (Vec2, error) {
	if s == 0 {
		return Vec2{}, ErrDivideByZero
	}
	return Vec2{a.X / s, a.Y / s}, nil
}

func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Len returns the magnitude.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Normalize returns the unit vector, or ErrZeroLength.
func (a Vec2) Normalize() (Vec2, error) {
	l := a.Len()
	if l == 0 {
		return Vec2{}, ErrZeroLength
	}
	return Vec2{a.X / l, a.Y / l}, nil
}

// Vec3 zero-pads to three components.
func (a Vec2) Vec3() Vec3 {
	return Vec3{a.X, a.Y, 0}
}

func (a Vec2) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", a.X, a.Y)
}
