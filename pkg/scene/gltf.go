package scene

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/models"
)

// ErrNoGeometry is returned when a document holds nothing drawable.
var ErrNoGeometry = errors.New("no drawable geometry")

// LoadGLTF loads a .gltf or .glb file as a scene.
func LoadGLTF(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	s, err := FromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// FromDocument builds a scene from a decoded glTF document. Every node of the
// default scene that references a mesh becomes one Object per mesh
// primitive, placed by the node's accumulated transform. Nodes that share a
// mesh share its models.
func FromDocument(doc *gltf.Document) (*Scene, error) {
	l := &gltfLoader{
		doc:      doc,
		meshes:   make(map[int][]meshPart),
		visiting: make(map[int]bool),
	}
	s := &Scene{}

	roots := l.roots()
	for _, n := range roots {
		if err := l.walk(n, math3d.Identity(), s); err != nil {
			return nil, err
		}
	}

	// Documents without a scene graph still carry meshes.
	if len(roots) == 0 {
		for i := range doc.Meshes {
			if err := l.instance(i, "", math3d.Identity(), s); err != nil {
				return nil, err
			}
		}
	}

	if s.Len() == 0 {
		return nil, ErrNoGeometry
	}
	return s, nil
}

type meshPart struct {
	model *models.Model
	color color.RGBA
}

type gltfLoader struct {
	doc      *gltf.Document
	meshes   map[int][]meshPart
	visiting map[int]bool
}

func (l *gltfLoader) roots() []int {
	if len(l.doc.Scenes) == 0 {
		return nil
	}
	idx := 0
	if l.doc.Scene != nil && *l.doc.Scene < len(l.doc.Scenes) {
		idx = *l.doc.Scene
	}
	return l.doc.Scenes[idx].Nodes
}

func (l *gltfLoader) walk(idx int, parent math3d.Mat4, s *Scene) error {
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return fmt.Errorf("node %d: out of range", idx)
	}
	if l.visiting[idx] {
		return fmt.Errorf("node %d: cycle in node hierarchy", idx)
	}
	l.visiting[idx] = true
	defer delete(l.visiting, idx)

	node := l.doc.Nodes[idx]
	world := parent.Mul(nodeMatrix(node))

	if node.Mesh != nil {
		if err := l.instance(*node.Mesh, node.Name, world, s); err != nil {
			return fmt.Errorf("node %q: %w", node.Name, err)
		}
	}
	for _, child := range node.Children {
		if err := l.walk(child, world, s); err != nil {
			return err
		}
	}
	return nil
}

// instance adds one object per primitive of mesh idx.
func (l *gltfLoader) instance(idx int, name string, world math3d.Mat4, s *Scene) error {
	parts, err := l.mesh(idx)
	if err != nil {
		return err
	}
	for _, p := range parts {
		obj := NewObject(p.model, world)
		if name != "" {
			obj.Name = name
		}
		obj.Color = p.color
		s.Add(obj)
	}
	return nil
}

func (l *gltfLoader) mesh(idx int) ([]meshPart, error) {
	if parts, ok := l.meshes[idx]; ok {
		return parts, nil
	}
	if idx < 0 || idx >= len(l.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d: out of range", idx)
	}
	m := l.doc.Meshes[idx]

	var parts []meshPart
	for i, prim := range m.Primitives {
		model, err := l.primitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
		}
		if model == nil {
			continue
		}
		name := m.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", idx)
		}
		parts = append(parts, meshPart{
			model: model.Named(name),
			color: l.materialColor(prim.Material),
		})
	}
	l.meshes[idx] = parts
	return parts, nil
}

// primitive converts one glTF primitive. It returns nil, nil for primitives
// without positions.
func (l *gltfLoader) primitive(prim *gltf.Primitive) (*models.Model, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := l.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(l.doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	vertices := make([]math3d.Vec3, len(positions))
	for i, p := range positions {
		vertices[i] = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	var indices []int
	if prim.Indices != nil {
		acr, err := l.accessor(*prim.Indices)
		if err != nil {
			return nil, err
		}
		raw, err := modeler.ReadIndices(l.doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		indices = make([]int, len(raw))
		for i, v := range raw {
			indices[i] = int(v)
		}
	} else {
		indices = make([]int, len(vertices))
		for i := range indices {
			indices[i] = i
		}
	}

	tag, indices, err := convertMode(prim.Mode, indices)
	if err != nil {
		return nil, err
	}
	return models.New(vertices, indices, tag)
}

func (l *gltfLoader) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(l.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: out of range", idx)
	}
	return l.doc.Accessors[idx], nil
}

func (l *gltfLoader) materialColor(idx *int) color.RGBA {
	if idx == nil || *idx < 0 || *idx >= len(l.doc.Materials) {
		return color.RGBA{}
	}
	pbr := l.doc.Materials[*idx].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return color.RGBA{}
	}
	f := *pbr.BaseColorFactor
	return color.RGBA{unit8(f[0]), unit8(f[1]), unit8(f[2]), 255}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(min(max(v, 0), 1) * 255))
}

// convertMode maps a glTF topology onto one of the three model primitives.
// Strips, loops and fans are expanded into plain lists.
func convertMode(mode gltf.PrimitiveMode, idx []int) (models.Primitive, []int, error) {
	switch mode {
	case gltf.PrimitivePoints:
		return models.Points, idx, nil
	case gltf.PrimitiveLines:
		return models.Lines, idx, nil
	case gltf.PrimitiveLineStrip, gltf.PrimitiveLineLoop:
		var out []int
		for i := 0; i+1 < len(idx); i++ {
			out = append(out, idx[i], idx[i+1])
		}
		if mode == gltf.PrimitiveLineLoop && len(idx) > 2 {
			out = append(out, idx[len(idx)-1], idx[0])
		}
		return models.Lines, out, nil
	case gltf.PrimitiveTriangles:
		return models.Triangles, idx, nil
	case gltf.PrimitiveTriangleStrip:
		var out []int
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, idx[i], idx[i+1], idx[i+2])
			} else {
				out = append(out, idx[i+1], idx[i], idx[i+2])
			}
		}
		return models.Triangles, out, nil
	case gltf.PrimitiveTriangleFan:
		var out []int
		for i := 1; i+1 < len(idx); i++ {
			out = append(out, idx[0], idx[i], idx[i+1])
		}
		return models.Triangles, out, nil
	}
	return 0, nil, fmt.Errorf("%w: glTF mode %d", models.ErrUnknownPrimitive, mode)
}

var identity16 = [16]float64(math3d.Identity())

// nodeMatrix returns the node's local transform: its matrix when one is set,
// otherwise T * R * S.
func nodeMatrix(n *gltf.Node) math3d.Mat4 {
	if n.Matrix != identity16 && n.Matrix != [16]float64{} {
		return math3d.Mat4(n.Matrix)
	}

	t := n.Translation
	r := n.Rotation
	sc := n.Scale
	if sc == [3]float64{} {
		sc = [3]float64{1, 1, 1}
	}
	return math3d.Translate(math3d.V3(t[0], t[1], t[2])).
		Mul(math3d.FromQuaternion(r[0], r[1], r[2], r[3])).
		Mul(math3d.Scale(math3d.V3(sc[0], sc[1], sc[2])))
}

// Document encodes the scene as a glTF document: one mesh per distinct
// model and color, one node per object carrying its transform as a matrix.
func Document(s *Scene) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	type key struct {
		model *models.Model
		color color.RGBA
	}
	meshes := make(map[key]int)

	for i, o := range s.Objects {
		if o.Model == nil {
			continue
		}
		if err := o.Model.Validate(); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
		k := key{o.Model, o.Color}
		mi, ok := meshes[k]
		if !ok {
			mi = writeMesh(doc, o.Model, o.Color)
			meshes[k] = mi
		}
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:     o.Name,
			Mesh:     gltf.Index(mi),
			Matrix:   [16]float64(o.Transform),
			Rotation: [4]float64{0, 0, 0, 1},
			Scale:    [3]float64{1, 1, 1},
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	if len(doc.Nodes) == 0 {
		return nil, ErrNoGeometry
	}
	return doc, nil
}

func writeMesh(doc *gltf.Document, m *models.Model, c color.RGBA) int {
	positions := make([][3]float32, m.VertexCount())
	for i := range positions {
		v := m.Vertex(i)
		positions[i] = [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
	}
	indices := make([]uint32, m.IndexCount())
	for i := range indices {
		indices[i] = uint32(m.Index(i))
	}

	mode := gltf.PrimitivePoints
	switch m.Primitive() {
	case models.Lines:
		mode = gltf.PrimitiveLines
	case models.Triangles:
		mode = gltf.PrimitiveTriangles
	}

	prim := &gltf.Primitive{
		Mode:       mode,
		Attributes: map[string]int{gltf.POSITION: modeler.WritePosition(doc, positions)},
	}
	if len(indices) > 0 {
		prim.Indices = gltf.Index(modeler.WriteIndices(doc, indices))
	}
	if c.A != 0 {
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &[4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, 1},
			},
		})
		prim.Material = gltf.Index(len(doc.Materials) - 1)
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       m.Name(),
		Primitives: []*gltf.Primitive{prim},
	})
	return len(doc.Meshes) - 1
}

// SaveGLTF writes the scene to path, as binary glTF when the extension is .glb.
func SaveGLTF(path string, s *Scene) error {
	doc, err := Document(s)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}
