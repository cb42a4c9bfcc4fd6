package models

import (
	"errors"
	"testing"

	"github.com/taigrr/wiretty/pkg/math3d"
)

func square() []math3d.Vec3 {
	return []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(1, 0, 0),
		math3d.V3(1, 1, 0),
		math3d.V3(0, 1, 0),
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		prim    Primitive
		wantErr error
	}{
		{"points any count", []int{0, 1, 2}, Points, nil},
		{"lines even", []int{0, 1, 1, 2}, Lines, nil},
		{"lines odd", []int{0, 1, 2}, Lines, ErrIndexCount},
		{"triangles multiple of three", []int{0, 1, 2, 0, 2, 3}, Triangles, nil},
		{"triangles four", []int{0, 1, 2, 3}, Triangles, ErrIndexCount},
		{"triangles five", []int{0, 1, 2, 3, 0}, Triangles, ErrIndexCount},
		{"negative index", []int{0, -1}, Lines, ErrIndexRange},
		{"index past end", []int{0, 4}, Lines, ErrIndexRange},
		{"unknown primitive", []int{0, 1}, Primitive(7), ErrUnknownPrimitive},
		{"empty lines", nil, Lines, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := New(square(), tc.indices, tc.prim)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if m.IndexCount() != len(tc.indices) {
					t.Errorf("IndexCount = %d, want %d", m.IndexCount(), len(tc.indices))
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("have %v, want %v", err, tc.wantErr)
			}
			if m != nil {
				t.Error("model returned alongside error")
			}
		})
	}
}

func TestModelIsImmutable(t *testing.T) {
	verts := square()
	idx := []int{0, 1, 2, 3}
	m, err := New(verts, idx, Lines)
	if err != nil {
		t.Fatal(err)
	}

	verts[0] = math3d.V3(9, 9, 9)
	idx[0] = 3

	if m.Vertex(0) != math3d.Zero3() {
		t.Errorf("vertex changed through caller slice: %v", m.Vertex(0))
	}
	if m.Index(0) != 0 {
		t.Errorf("index changed through caller slice: %d", m.Index(0))
	}
}

func TestBounds(t *testing.T) {
	m := MustNew([]math3d.Vec3{
		math3d.V3(-1, 2, 3),
		math3d.V3(4, -5, 6),
		math3d.V3(0, 0, -7),
	}, []int{0, 1, 2}, Points)

	lo, hi := m.Bounds()
	if lo != math3d.V3(-1, -5, -7) || hi != math3d.V3(4, 2, 6) {
		t.Errorf("bounds = %v..%v", lo, hi)
	}
	if c := m.Center(); c != math3d.V3(1.5, -1.5, -0.5) {
		t.Errorf("center = %v", c)
	}
	if s := m.Size(); s != math3d.V3(5, 7, 13) {
		t.Errorf("size = %v", s)
	}
}

func TestZeroModel(t *testing.T) {
	var m Model
	if err := m.Validate(); err != nil {
		t.Errorf("zero model should be a valid empty point set: %v", err)
	}
	if m.VertexCount() != 0 || m.EdgeCount() != 0 {
		t.Error("zero model should be empty")
	}
}

func TestParsePrimitive(t *testing.T) {
	tests := []struct {
		in   string
		want Primitive
		ok   bool
	}{
		{"points", Points, true},
		{"LINES", Lines, true},
		{"Triangles", Triangles, true},
		{"quads", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			p, err := ParsePrimitive(tc.in)
			if tc.ok != (err == nil) {
				t.Fatalf("err = %v", err)
			}
			if tc.ok && p != tc.want {
				t.Errorf("have %v, want %v", p, tc.want)
			}
			if !tc.ok && !errors.Is(err, ErrUnknownPrimitive) {
				t.Errorf("have %v, want ErrUnknownPrimitive", err)
			}
		})
	}
	if s := Primitive(9).String(); s != "Primitive(9)" {
		t.Errorf("String() = %q", s)
	}
}

func TestBuilders(t *testing.T) {
	tests := []struct {
		name     string
		model    *Model
		prim     Primitive
		vertices int
		edges    int
	}{
		{"cube", Cube(1), Lines, 8, 12},
		{"cube faces", CubeFaces(1), Triangles, 8, 36},
		{"axes", Axes(2), Lines, 4, 3},
		{"grid", Grid(10, 5), Lines, 24, 12},
		{"grid clamps divisions", Grid(10, 0), Lines, 8, 4},
		{"octahedron", Octahedron(2), Triangles, 6, 24},
		{"point cloud", PointCloud(square()), Points, 4, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.model.Primitive() != tc.prim {
				t.Errorf("primitive = %v, want %v", tc.model.Primitive(), tc.prim)
			}
			if tc.model.VertexCount() != tc.vertices {
				t.Errorf("vertices = %d, want %d", tc.model.VertexCount(), tc.vertices)
			}
			if tc.model.EdgeCount() != tc.edges {
				t.Errorf("edges = %d, want %d", tc.model.EdgeCount(), tc.edges)
			}
			if err := tc.model.Validate(); err != nil {
				t.Errorf("builder produced invalid model: %v", err)
			}
		})
	}
}

func TestCubeSize(t *testing.T) {
	lo, hi := Cube(2).Bounds()
	if lo != math3d.V3(-1, -1, -1) || hi != math3d.V3(1, 1, 1) {
		t.Errorf("Cube(2) bounds = %v..%v", lo, hi)
	}
}

func TestCubeFacesOutward(t *testing.T) {
	m := CubeFaces(2)
	for i := 0; i < m.IndexCount(); i += 3 {
		a, b, c := m.Vertex(m.Index(i)), m.Vertex(m.Index(i+1)), m.Vertex(m.Index(i+2))
		normal := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).Scale(1.0 / 3)
		if normal.Dot(center) <= 0 {
			t.Errorf("triangle %d faces inward", i/3)
		}
	}
}

func TestNamed(t *testing.T) {
	m := Cube(1)
	renamed := m.Named("box")
	if renamed.Name() != "box" || m.Name() != "cube" {
		t.Errorf("names = %q, %q", renamed.Name(), m.Name())
	}
	if renamed.VertexCount() != m.VertexCount() {
		t.Error("Named should keep geometry")
	}
}

func TestAsPrimitive(t *testing.T) {
	faces := CubeFaces(1)
	lines := faces.AsPrimitive(Lines)
	if err := lines.Validate(); err != nil {
		t.Errorf("36 indices as lines: %v", err)
	}
	if faces.Primitive() != Triangles {
		t.Error("AsPrimitive modified the source model")
	}

	odd := PointCloud(square()[:3]).AsPrimitive(Lines)
	if err := odd.Validate(); !errors.Is(err, ErrIndexCount) {
		t.Errorf("have %v, want ErrIndexCount", err)
	}
	if err := Cube(1).AsPrimitive(Primitive(7)).Validate(); !errors.Is(err, ErrUnknownPrimitive) {
		t.Errorf("have %v, want ErrUnknownPrimitive", err)
	}
}
