package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))

	for b.Loop() {
		_, _ = m.Inverse()
	}
}

func BenchmarkVec3Normalize(b *testing.B) {
	v := V3(1, 2, 3)

	for b.Loop() {
		_, _ = v.Normalize()
	}
}

func BenchmarkPerspective(b *testing.B) {
	for b.Loop() {
		_ = Perspective(1.047, 1.333, 0.1, 100.0)
	}
}

func BenchmarkModelViewProjection(b *testing.B) {
	// Same composition the camera performs once per object per frame
	view := RotateY(-0.3).Mul(Translate(V3(0, 0, -10)))
	proj := Perspective(1.047, 1.333, 0.1, 100.0)
	model := Translate(V3(0, 1, 0)).Mul(RotateY(0.7))

	for b.Loop() {
		_ = proj.Mul(view).Mul(model)
	}
}
