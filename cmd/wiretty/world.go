package main

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/models"
	"github.com/taigrr/wiretty/pkg/render"
	"github.com/taigrr/wiretty/pkg/scene"
)

// world is what the viewer and the snapshot command draw: the loaded (or
// demo) objects plus an optional floor grid and axes.
type world struct {
	name    string
	objects *scene.Scene
	guides  *scene.Scene
	base    []math3d.Mat4 // fitted transforms, before animation
	demo    bool

	showGuides bool
	prim       int // index into primModes
	views      map[viewKey]*models.Model
}

type viewKey struct {
	model *models.Model
	prim  models.Primitive
}

// primModes cycles native drawing, then every primitive in turn.
var primModes = []struct {
	name string
	prim models.Primitive
	set  bool
}{
	{"native", 0, false},
	{"points", models.Points, true},
	{"lines", models.Lines, true},
	{"triangles", models.Triangles, true},
}

const demoStep = math.Pi / 180

// demoTransform bobs and spins the demo cube; a advances one degree per frame.
func demoTransform(a float64) math3d.Mat4 {
	return math3d.Translate(math3d.V3(0, math.Cos(15*a), 0)).Mul(math3d.RotateY(7 * a))
}

// loadWorld builds the world for path, or the demo cube when path is empty.
func loadWorld(path string) (*world, error) {
	w := &world{
		showGuides: true,
		views:      make(map[viewKey]*models.Model),
	}
	if path == "" {
		w.name = "demo cube"
		w.demo = true
		w.objects = scene.New(&scene.Object{
			Name:      "cube",
			Model:     models.CubeFaces(2),
			Transform: math3d.Identity(),
		})
	} else {
		s, err := scene.LoadGLTF(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		w.name = filepath.Base(path)
		w.objects = s
		fit := s.Fit(4)
		for _, o := range s.Objects {
			o.Transform = fit.Mul(o.Transform)
		}
		colorize(s)
	}
	for _, o := range w.objects.Objects {
		w.base = append(w.base, o.Transform)
	}
	w.animate(0)

	grid := scene.NewObject(models.Grid(20, 20), math3d.Translate(math3d.V3(0, -2, 0)))
	grid.Color = render.RGB(70, 70, 90)
	axes := scene.NewObject(models.Axes(1.5), math3d.Translate(math3d.V3(0, -2, 0)))
	axes.Color = render.ColorYellow
	w.guides = scene.New(grid, axes)
	return w, nil
}

// colorize gives every model without a material color its own palette
// entry, so distinct meshes stay distinguishable.
func colorize(s *scene.Scene) {
	palette := render.Palette(max(len(s.Models()), 1))
	index := make(map[*models.Model]int)
	for _, m := range s.Models() {
		index[m] = len(index)
	}
	for _, o := range s.Objects {
		if o.Color.A == 0 && o.Model != nil {
			o.Color = palette[index[o.Model]]
		}
	}
}

// animate advances the demo animation to frame n.
func (w *world) animate(n int) {
	if !w.demo {
		return
	}
	for i, o := range w.objects.Objects {
		o.Transform = demoTransform(float64(n) * demoStep).Mul(w.base[i])
	}
}

// spin turns every object about the world Y axis by angle radians from
// its base pose. The demo cube keeps its own animation on top.
func (w *world) spin(angle float64, frame int) {
	rot := math3d.RotateY(angle)
	for i, o := range w.objects.Objects {
		base := w.base[i]
		if w.demo {
			base = demoTransform(float64(frame) * demoStep).Mul(base)
		}
		o.Transform = rot.Mul(base)
	}
}

// cyclePrimitive switches to the next drawing mode and returns its name.
func (w *world) cyclePrimitive() string {
	w.prim = (w.prim + 1) % len(primModes)
	return primModes[w.prim].name
}

// view returns obj as it should be drawn under the current mode.
func (w *world) view(obj *scene.Object) *scene.Object {
	mode := primModes[w.prim]
	if !mode.set || obj.Model == nil || obj.Model.Primitive() == mode.prim {
		return obj
	}
	key := viewKey{obj.Model, mode.prim}
	m, ok := w.views[key]
	if !ok {
		m = obj.Model.AsPrimitive(mode.prim)
		w.views[key] = m
	}
	v := *obj
	v.Model = m
	return &v
}

// draw renders the guides and objects through cam. Configuration errors
// are collected, not fatal: the rest of the frame is still drawn.
func (w *world) draw(cam *render.Camera, out render.Sink) error {
	var errs []error
	if w.showGuides {
		if err := cam.RenderScene(w.guides, out); err != nil {
			errs = append(errs, err)
		}
	}
	for _, o := range w.objects.Objects {
		if err := cam.Render(w.view(o), out); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d objects skipped: %w", len(errs), errs[0])
	}
	return nil
}

// modelMatrix returns the first object's transform, for display.
func (w *world) modelMatrix() math3d.Mat4 {
	if w.objects.Len() == 0 {
		return math3d.Identity()
	}
	return w.objects.Objects[0].Transform
}
