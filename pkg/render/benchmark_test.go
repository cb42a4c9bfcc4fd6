package render

import (
	"math"
	"testing"

	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/models"
	"github.com/taigrr/wiretty/pkg/scene"
)

// BenchmarkFrustumExtract benchmarks frustum plane extraction from view-projection matrix.
func BenchmarkFrustumExtract(b *testing.B) {
	viewProj := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)

	for b.Loop() {
		_ = NewFrustumFromMatrix(viewProj)
	}
}

// BenchmarkAABBIntersection benchmarks AABB vs frustum intersection test.
func BenchmarkAABBIntersection(b *testing.B) {
	frustum := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))

	b.Run("visible", func(b *testing.B) {
		box := AABB{Min: math3d.V3(-1, -1, -15), Max: math3d.V3(1, 1, -5)}
		for b.Loop() {
			_ = frustum.IntersectAABB(box)
		}
	})

	b.Run("culled", func(b *testing.B) {
		box := AABB{Min: math3d.V3(-1, -1, 5), Max: math3d.V3(1, 1, 15)}
		for b.Loop() {
			_ = frustum.IntersectAABB(box)
		}
	})
}

func BenchmarkClipLine(b *testing.B) {
	for b.Loop() {
		_, _, _, _, _ = ClipLine(-20, 35, 140, -12, 120, 60)
	}
}

func BenchmarkDrawLine(b *testing.B) {
	r := NewRasterizer(NewFramebuffer(160, 96))
	for b.Loop() {
		r.DrawLine(-10, 3, 170, 90, ColorGreen)
	}
}

// BenchmarkRenderGrid renders a 40x40 floor grid into a terminal-sized framebuffer.
func BenchmarkRenderGrid(b *testing.B) {
	fb := NewFramebuffer(160, 96)
	r := NewRasterizer(fb)
	cam := NewCameraAt(math3d.V3(0, 2, 6), 0, math.Pi/3, 0, 0.1, 100)
	cam.Pitch = -0.3
	obj := scene.NewObject(models.Grid(20, 40), math3d.Identity())

	for b.Loop() {
		fb.Clear(ColorBlack)
		_ = cam.Render(obj, r)
	}
}
