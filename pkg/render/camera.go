package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/models"
	"github.com/taigrr/wiretty/pkg/scene"
)

// Camera errors.
var (
	ErrNoModel        = errors.New("object has no model")
	ErrInvalidFrustum = errors.New("invalid frustum parameters")
)

// maxPitch keeps the position+yaw camera away from straight up/down.
const maxPitch = math.Pi/2 - 0.01

// Camera projects scene objects onto a Sink.
//
// It is placed in one of two ways. With UseTransform set, Transform is the
// camera's world matrix and the view matrix is its inverse. Otherwise the
// camera sits at Position, turned by Yaw about +Y and tilted by Pitch about
// its local X axis. In both cases the camera looks down its local -Z axis
// with +Y up.
//
// All fields are plain data; Render rebuilds the view and projection
// matrices from them on every call.
type Camera struct {
	Transform    math3d.Mat4
	UseTransform bool

	Position math3d.Vec3
	Yaw      float64 // Rotation around Y axis (look left/right)
	Pitch    float64 // Rotation around X axis (look up/down)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height; <= 0 asks the sink
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// DisableCulling skips the whole-object frustum test.
	DisableCulling bool

	Stats RenderStats // Statistics for debugging/benchmarking

	clip []math3d.Vec4 // per-vertex scratch, reused between calls
}

// RenderStats counts the camera's decisions since the last reset.
type RenderStats struct {
	ObjectsTested   int // Objects passed to Render
	ObjectsCulled   int // Objects entirely outside the frustum
	PointsDrawn     int // Points handed to the sink
	PointsHidden    int // Points outside the frustum or degenerate
	SegmentsDrawn   int // Segments handed to the sink
	SegmentsDropped int // Segments entirely beyond near/far or degenerate
}

// NewCamera creates a camera placed by a world transform. The aspect ratio
// is taken from the sink at render time.
func NewCamera(transform math3d.Mat4, fov, near, far float64) *Camera {
	return &Camera{
		Transform:    transform,
		UseTransform: true,
		FOV:          fov,
		Near:         near,
		Far:          far,
	}
}

// NewCameraAt creates a camera at position turned by yaw radians.
func NewCameraAt(position math3d.Vec3, yaw, fov, aspect, near, far float64) *Camera {
	return &Camera{
		Position:    position,
		Yaw:         yaw,
		FOV:         fov,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
	}
}

// ResetStats clears the statistics (call once per frame).
func (c *Camera) ResetStats() {
	c.Stats = RenderStats{}
}

// orientation returns the camera's world rotation (no translation).
func (c *Camera) orientation() math3d.Mat4 {
	if c.UseTransform {
		m := c.Transform
		m.SetTranslation(math3d.Zero3())
		return m
	}
	return math3d.RotateY(c.Yaw).Mul(math3d.RotateX(c.Pitch))
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() math3d.Vec3 {
	if c.UseTransform {
		return c.Transform.Translation()
	}
	return c.Position
}

// Forward returns the direction the camera looks in.
func (c *Camera) Forward() math3d.Vec3 {
	return c.orientation().MulVec3Dir(math3d.V3(0, 0, -1))
}

// Right returns the camera's right direction.
func (c *Camera) Right() math3d.Vec3 {
	return c.orientation().MulVec3Dir(math3d.Right())
}

// Up returns the camera's up direction.
func (c *Camera) Up() math3d.Vec3 {
	return c.orientation().MulVec3Dir(math3d.Up())
}

func (c *Camera) translate(d math3d.Vec3) {
	if c.UseTransform {
		c.Transform.SetTranslation(c.Transform.Translation().Add(d))
		return
	}
	c.Position = c.Position.Add(d)
}

// MoveForward moves the camera along its view direction (backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.translate(c.Forward().Scale(distance))
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.translate(c.Right().Scale(distance))
}

// MoveUp moves the camera along world +Y (or down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.translate(math3d.Up().Scale(distance))
}

// Turn rotates the camera by the given angles in radians. Pitch is clamped
// short of straight up or down for position+yaw cameras.
func (c *Camera) Turn(deltaPitch, deltaYaw float64) {
	if c.UseTransform {
		eye := c.Transform.Translation()
		rot := math3d.RotateY(deltaYaw).Mul(c.orientation()).Mul(math3d.RotateX(deltaPitch))
		rot.SetTranslation(eye)
		c.Transform = rot
		return
	}
	c.Yaw += deltaYaw
	c.Pitch = min(max(c.Pitch+deltaPitch, -maxPitch), maxPitch)
}

// LookAt turns the camera toward target.
func (c *Camera) LookAt(target math3d.Vec3) error {
	eye := c.Eye()
	if c.UseTransform {
		view, err := math3d.LookAt(eye, target, math3d.Up())
		if err != nil {
			return fmt.Errorf("look at %v: %w", target, err)
		}
		world, err := view.Inverse()
		if err != nil {
			return fmt.Errorf("look at %v: %w", target, err)
		}
		c.Transform = world
		return nil
	}

	dir, err := target.Sub(eye).Normalize()
	if err != nil {
		return fmt.Errorf("look at %v: %w", target, err)
	}
	c.Pitch = min(max(math.Asin(dir.Y), -maxPitch), maxPitch)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	return nil
}

// ViewMatrix returns the world-to-camera matrix. It fails only when a
// transform-placed camera has a singular Transform.
func (c *Camera) ViewMatrix() (math3d.Mat4, error) {
	if c.UseTransform {
		view, err := c.Transform.Inverse()
		if err != nil {
			return math3d.Identity(), fmt.Errorf("camera transform: %w", err)
		}
		return view, nil
	}
	// Inverse of Translate(Position) * RotateY(Yaw) * RotateX(Pitch)
	return math3d.RotateX(-c.Pitch).
		Mul(math3d.RotateY(-c.Yaw)).
		Mul(math3d.Translate(c.Position.Negate())), nil
}

// ProjectionMatrix returns the perspective matrix for the given aspect ratio.
func (c *Camera) ProjectionMatrix(aspect float64) math3d.Mat4 {
	return math3d.Perspective(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view for the given aspect ratio.
func (c *Camera) ViewProjection(aspect float64) (math3d.Mat4, error) {
	if err := c.validate(aspect); err != nil {
		return math3d.Identity(), err
	}
	view, err := c.ViewMatrix()
	if err != nil {
		return math3d.Identity(), err
	}
	return c.ProjectionMatrix(aspect).Mul(view), nil
}

// Frustum returns the world-space view frustum for the given aspect ratio.
func (c *Camera) Frustum(aspect float64) (Frustum, error) {
	vp, err := c.ViewProjection(aspect)
	if err != nil {
		return Frustum{}, err
	}
	return NewFrustumFromMatrix(vp), nil
}

func (c *Camera) validate(aspect float64) error {
	switch {
	case !(c.FOV > 0 && c.FOV < math.Pi):
		return fmt.Errorf("%w: fov %v outside (0, pi)", ErrInvalidFrustum, c.FOV)
	case !(c.Near > 0):
		return fmt.Errorf("%w: near %v must be positive", ErrInvalidFrustum, c.Near)
	case !(c.Far > c.Near) || math.IsInf(c.Far, 0):
		return fmt.Errorf("%w: far %v must exceed near %v", ErrInvalidFrustum, c.Far, c.Near)
	case !(aspect > 0) || math.IsInf(aspect, 0):
		return fmt.Errorf("%w: aspect %v", ErrInvalidFrustum, aspect)
	}
	return nil
}

// aspect resolves the aspect ratio for a surface of the given size.
func (c *Camera) aspect(out any, width, height int) float64 {
	if c.AspectRatio > 0 {
		return c.AspectRatio
	}
	if a, ok := out.(aspecter); ok {
		return a.AspectRatio()
	}
	if height <= 0 {
		return 1
	}
	return float64(width) / float64(height)
}

// Project maps a world point to screen coordinates on a width x height
// surface. visible is false when the point is outside the frustum or
// numerically degenerate. depth is the NDC z in (-1, 1).
func (c *Camera) Project(world math3d.Vec3, width, height int) (x, y, depth float64, visible bool) {
	vp, err := c.ViewProjection(c.aspect(nil, width, height))
	if err != nil {
		return 0, 0, 0, false
	}
	return toScreen(vp.MulVec4(world.Point()), float64(width), float64(height))
}

// toScreen performs the perspective divide and viewport mapping for a
// single vertex. NDC y = 1 is the top row of the screen.
func toScreen(clip math3d.Vec4, width, height float64) (x, y, depth float64, visible bool) {
	ndc, ok := clip.PerspectiveDivide()
	if !ok || !insideNDC(ndc) {
		return 0, 0, 0, false
	}
	x, y = ndcToScreen(ndc, width, height)
	return x, y, ndc.Z, true
}

func ndcToScreen(ndc math3d.Vec3, width, height float64) (x, y float64) {
	return (ndc.X + 1) / 2 * width, (1 - ndc.Y) / 2 * height
}

// insideNDC requires every component to be strictly inside (-1, 1).
func insideNDC(v math3d.Vec3) bool {
	return math.Abs(v.X) < 1 && math.Abs(v.Y) < 1 && math.Abs(v.Z) < 1
}

// Render projects obj through the camera and draws it on out.
//
// Points are drawn when strictly inside the frustum. Lines and triangle
// edges are clipped against the near and far planes in clip space, divided
// into NDC and mapped to screen coordinates; the sink clips them to the
// viewport. A model whose index count does not match its primitive is a
// configuration error: nothing is drawn and the error is returned.
func (c *Camera) Render(obj *scene.Object, out Sink) error {
	if obj == nil || obj.Model == nil {
		return ErrNoModel
	}
	log := Logger()
	model := obj.Model
	if err := model.Validate(); err != nil {
		log.Warn("render: malformed model", slog.String("object", obj.Name), slog.Any("err", err))
		return fmt.Errorf("render %q: %w", obj.Name, err)
	}
	c.Stats.ObjectsTested++

	width, height := out.Size()
	if width <= 0 || height <= 0 || model.IndexCount() == 0 {
		return nil
	}
	aspect := c.aspect(out, width, height)
	vp, err := c.ViewProjection(aspect)
	if err != nil {
		log.Warn("render: bad camera", slog.Any("err", err))
		return fmt.Errorf("render %q: %w", obj.Name, err)
	}
	pvm := vp.Mul(obj.Transform)

	if !c.DisableCulling {
		lo, hi := model.Bounds()
		if !NewFrustumFromMatrix(pvm).IntersectAABB(AABB{Min: lo, Max: hi}) {
			c.Stats.ObjectsCulled++
			log.Debug("render: culled", slog.String("object", obj.Name))
			return nil
		}
	}

	c.clip = c.clip[:0]
	for i := range model.VertexCount() {
		c.clip = append(c.clip, pvm.MulVec4(model.Vertex(i).Point()))
	}

	w, h := float64(width), float64(height)
	n := model.IndexCount()
	switch model.Primitive() {
	case models.Points:
		for i := range n {
			x, y, _, ok := toScreen(c.clip[model.Index(i)], w, h)
			if !ok {
				c.Stats.PointsHidden++
				continue
			}
			out.DrawPoint(x, y, obj.Color)
			c.Stats.PointsDrawn++
		}
	case models.Lines:
		for i := 0; i+1 < n; i += 2 {
			c.segment(model.Index(i), model.Index(i+1), w, h, obj.Color, out)
		}
	case models.Triangles:
		for i := 0; i+2 < n; i += 3 {
			a, b, cc := model.Index(i), model.Index(i+1), model.Index(i+2)
			c.segment(a, b, w, h, obj.Color, out)
			c.segment(b, cc, w, h, obj.Color, out)
			c.segment(cc, a, w, h, obj.Color, out)
		}
	}
	return nil
}

// segment clips one edge in clip space and forwards it to the sink.
func (c *Camera) segment(ia, ib int, w, h float64, col Color, out Sink) {
	a, b, ok := clipDepth(c.clip[ia], c.clip[ib])
	if !ok {
		c.Stats.SegmentsDropped++
		return
	}
	na, okA := a.PerspectiveDivide()
	nb, okB := b.PerspectiveDivide()
	if !okA || !okB {
		c.Stats.SegmentsDropped++
		Logger().Debug("render: degenerate segment", slog.Int("a", ia), slog.Int("b", ib))
		return
	}
	x0, y0 := ndcToScreen(na, w, h)
	x1, y1 := ndcToScreen(nb, w, h)
	out.DrawLine(x0, y0, x1, y1, col)
	c.Stats.SegmentsDrawn++
}

// RenderScene renders every object in s. Objects with configuration errors
// are skipped; their errors are joined and returned after the pass.
func (c *Camera) RenderScene(s *scene.Scene, out Sink) error {
	var errs []error
	for _, obj := range s.Objects {
		if err := c.Render(obj, out); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
