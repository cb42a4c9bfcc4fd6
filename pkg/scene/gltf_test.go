package scene

import (
	"errors"
	"image/color"
	"math"
	"path/filepath"
	"slices"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/models"
)

func TestLoadGLTFInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

// lineDocument builds a document with one mesh drawn by two nodes, the
// second one nested under a translated parent.
func lineDocument(mode gltf.PrimitiveMode, idx []uint16) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	prim := &gltf.Primitive{
		Mode:       mode,
		Attributes: map[string]int{gltf.POSITION: pos},
	}
	if idx != nil {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, idx))
	}
	doc.Meshes = []*gltf.Mesh{{Name: "quad", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{
		{Name: "a", Mesh: gltf.Index(0)},
		{Name: "parent", Translation: [3]float64{0, 0, -5}, Children: []int{2}},
		{Name: "b", Mesh: gltf.Index(0), Translation: [3]float64{2, 0, 0}},
	}
	doc.Scenes[0].Nodes = []int{0, 1}
	return doc
}

func TestFromDocument(t *testing.T) {
	s, err := FromDocument(lineDocument(gltf.PrimitiveLines, []uint16{0, 1, 1, 2, 2, 3, 3, 0}))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	a, b := s.Objects[0], s.Objects[1]
	if a.Model != b.Model {
		t.Error("nodes sharing a mesh should share the model")
	}
	if a.Model.Primitive() != models.Lines || a.Model.EdgeCount() != 4 {
		t.Errorf("model = %v", a.Model)
	}
	if a.Name != "a" || b.Name != "b" {
		t.Errorf("names = %q, %q", a.Name, b.Name)
	}
	if got := b.Transform.Translation(); got != math3d.V3(2, 0, -5) {
		t.Errorf("nested translation = %v, want (2, 0, -5)", got)
	}
}

func TestConvertMode(t *testing.T) {
	tests := []struct {
		name string
		mode gltf.PrimitiveMode
		in   []int
		prim models.Primitive
		want []int
	}{
		{"points", gltf.PrimitivePoints, []int{0, 1, 2}, models.Points, []int{0, 1, 2}},
		{"line strip", gltf.PrimitiveLineStrip, []int{0, 1, 2}, models.Lines, []int{0, 1, 1, 2}},
		{"line loop", gltf.PrimitiveLineLoop, []int{0, 1, 2}, models.Lines, []int{0, 1, 1, 2, 2, 0}},
		{"triangle strip", gltf.PrimitiveTriangleStrip, []int{0, 1, 2, 3}, models.Triangles, []int{0, 1, 2, 2, 1, 3}},
		{"triangle fan", gltf.PrimitiveTriangleFan, []int{0, 1, 2, 3}, models.Triangles, []int{0, 1, 2, 0, 2, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prim, out, err := convertMode(tc.mode, tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if prim != tc.prim || !slices.Equal(out, tc.want) {
				t.Errorf("have %v %v, want %v %v", prim, out, tc.prim, tc.want)
			}
		})
	}

	if _, _, err := convertMode(gltf.PrimitiveMode(42), nil); !errors.Is(err, models.ErrUnknownPrimitive) {
		t.Errorf("have %v, want ErrUnknownPrimitive", err)
	}
}

func TestFromDocumentRejectsBadIndexCount(t *testing.T) {
	_, err := FromDocument(lineDocument(gltf.PrimitiveLines, []uint16{0, 1, 2}))
	if !errors.Is(err, models.ErrIndexCount) {
		t.Errorf("have %v, want ErrIndexCount", err)
	}
}

func TestFromDocumentWithoutIndices(t *testing.T) {
	s, err := FromDocument(lineDocument(gltf.PrimitiveLineLoop, nil))
	if err != nil {
		t.Fatal(err)
	}
	if n := s.Objects[0].Model.EdgeCount(); n != 4 {
		t.Errorf("EdgeCount = %d, want 4", n)
	}
}

func TestFromDocumentEmpty(t *testing.T) {
	if _, err := FromDocument(gltf.NewDocument()); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("have %v, want ErrNoGeometry", err)
	}
}

func TestNodeMatrix(t *testing.T) {
	s := math.Sin(math.Pi / 4)
	n := &gltf.Node{
		Translation: [3]float64{1, 2, 3},
		Rotation:    [4]float64{0, s, 0, s},
		Scale:       [3]float64{2, 2, 2},
	}
	want := math3d.Translate(math3d.V3(1, 2, 3)).
		Mul(math3d.RotateY(math.Pi / 2)).
		Mul(math3d.ScaleUniform(2))
	if have := nodeMatrix(n); !have.ApproxEqual(want, 1e-9) {
		t.Errorf("TRS\nhave\n%v\nwant\n%v", have, want)
	}

	explicit := math3d.Translate(math3d.V3(4, 5, 6))
	n = &gltf.Node{Matrix: [16]float64(explicit)}
	if have := nodeMatrix(n); have != explicit {
		t.Errorf("matrix\nhave\n%v\nwant\n%v", have, explicit)
	}

	if have := nodeMatrix(&gltf.Node{}); have != math3d.Identity() {
		t.Errorf("empty node\nhave\n%v", have)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	cube := models.Cube(1)
	src := New(
		NewObject(cube, math3d.Translate(math3d.V3(-1, 0, 0))),
		NewObject(cube, math3d.Translate(math3d.V3(1, 0, 0))),
		&Object{Name: "marker", Model: models.Octahedron(1), Transform: math3d.Identity(), Color: red},
	)

	path := filepath.Join(t.TempDir(), "level.glb")
	if err := SaveGLTF(path, src); err != nil {
		t.Fatal(err)
	}
	got, err := LoadGLTF(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Len() != 3 {
		t.Fatalf("Len = %d, want 3", got.Len())
	}
	if len(got.Models()) != 2 {
		t.Errorf("distinct models = %d, want 2", len(got.Models()))
	}
	for i, o := range got.Objects {
		if !o.Transform.ApproxEqual(src.Objects[i].Transform, 1e-6) {
			t.Errorf("object %d transform\nhave\n%v\nwant\n%v", i, o.Transform, src.Objects[i].Transform)
		}
		if o.Model.EdgeCount() != src.Objects[i].Model.EdgeCount() {
			t.Errorf("object %d edges = %d", i, o.Model.EdgeCount())
		}
	}
	if c := got.Objects[2].Color; c != red {
		t.Errorf("material color = %v, want %v", c, red)
	}
	if got.Objects[2].Name != "marker" {
		t.Errorf("name = %q", got.Objects[2].Name)
	}
}

func TestDocumentEmpty(t *testing.T) {
	if _, err := Document(New()); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("have %v, want ErrNoGeometry", err)
	}
}
