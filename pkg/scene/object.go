// Package scene places shared models in the world.
package scene

import (
	"image/color"

	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/models"
)

// Object pairs a shared model with its own world transform. The transform is
// meant to be rewritten every frame; the model is never modified.
type Object struct {
	Name      string
	Transform math3d.Mat4
	Model     *models.Model
	Color     color.RGBA // zero means the sink's default color
}

// NewObject creates an object drawing model with the given transform.
func NewObject(model *models.Model, transform math3d.Mat4) *Object {
	o := &Object{
		Transform: transform,
		Model:     model,
	}
	if model != nil {
		o.Name = model.Name()
	}
	return o
}

// Bounds returns the world-space box around the object's model.
// ok is false when the object has no geometry.
func (o *Object) Bounds() (lo, hi math3d.Vec3, ok bool) {
	if o.Model == nil || o.Model.VertexCount() == 0 {
		return math3d.Vec3{}, math3d.Vec3{}, false
	}
	mn, mx := o.Model.Bounds()
	for i := range 8 {
		corner := math3d.V3(
			pick(i&1 != 0, mx.X, mn.X),
			pick(i&2 != 0, mx.Y, mn.Y),
			pick(i&4 != 0, mx.Z, mn.Z),
		)
		p := o.Transform.MulVec3(corner)
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo, hi = lo.Min(p), hi.Max(p)
	}
	return lo, hi, true
}

// Scene is an ordered collection of objects.
type Scene struct {
	Objects []*Object
}

// New creates a scene holding objs.
func New(objs ...*Object) *Scene {
	return &Scene{Objects: objs}
}

// Add appends objects to the scene.
func (s *Scene) Add(objs ...*Object) {
	s.Objects = append(s.Objects, objs...)
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.Objects)
}

// Models returns the distinct models referenced by the scene, in first-use order.
func (s *Scene) Models() []*models.Model {
	seen := make(map[*models.Model]bool)
	var out []*models.Model
	for _, o := range s.Objects {
		if o.Model == nil || seen[o.Model] {
			continue
		}
		seen[o.Model] = true
		out = append(out, o.Model)
	}
	return out
}

// Bounds returns the world-space box around every object with geometry.
func (s *Scene) Bounds() (lo, hi math3d.Vec3, ok bool) {
	for _, o := range s.Objects {
		olo, ohi, has := o.Bounds()
		if !has {
			continue
		}
		if !ok {
			lo, hi, ok = olo, ohi, true
			continue
		}
		lo, hi = lo.Min(olo), hi.Max(ohi)
	}
	return lo, hi, ok
}

// Fit returns a transform that centers the scene at the origin and scales
// its largest dimension to size. It returns the identity for an empty scene.
func (s *Scene) Fit(size float64) math3d.Mat4 {
	lo, hi, ok := s.Bounds()
	if !ok {
		return math3d.Identity()
	}
	dims := hi.Sub(lo)
	extent := max(dims.X, dims.Y, dims.Z)
	if extent == 0 {
		return math3d.Translate(lo.Negate())
	}
	center := lo.Add(hi).Scale(0.5)
	return math3d.ScaleUniform(size / extent).Mul(math3d.Translate(center.Negate()))
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
