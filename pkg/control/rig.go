package control

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/render"
)

// Step sizes for one key press.
const (
	MoveStep = 0.5
	TurnStep = 10 * math.Pi / 180
	FOVStep  = 10 * math.Pi / 180
)

// Limits applied to targets so the camera always stays renderable.
const (
	MinFOV   = 10 * math.Pi / 180
	MaxFOV   = 170 * math.Pi / 180
	MaxPitch = math.Pi/2 - 0.01
)

// Axis is one value chasing a target through a critically damped spring.
type Axis struct {
	Value  float64
	Target float64
	vel    float64
	spring harmonica.Spring
}

// NewAxis creates an axis resting at v.
func NewAxis(fps int, v float64) Axis {
	return Axis{
		Value:  v,
		Target: v,
		// Frequency 6 settles in about half a second without overshoot.
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// Update advances the spring by one frame.
func (a *Axis) Update() {
	a.Value, a.vel = a.spring.Update(a.Value, a.vel, a.Target)
}

// Snap moves the axis to v immediately.
func (a *Axis) Snap(v float64) {
	a.Value, a.Target, a.vel = v, v, 0
}

// Settled reports whether the axis is within eps of its target and at rest.
func (a *Axis) Settled(eps float64) bool {
	return math.Abs(a.Value-a.Target) <= eps && math.Abs(a.vel) <= eps
}

// Spin tracks position and velocity for one rotation axis with spring decay.
type Spin struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewSpin creates a spin at rest.
func NewSpin(fps int) Spin {
	return Spin{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (s *Spin) Update() {
	s.Position += s.Velocity
	s.Velocity, s.velAccel = s.velSpring.Update(s.Velocity, s.velAccel, 0)
}

// Impulse adds to the current velocity.
func (s *Spin) Impulse(v float64) {
	s.Velocity += v
}

// Rig moves a position+yaw camera in discrete steps and eases it between
// them. Commands change the targets; Update writes the eased values back.
type Rig struct {
	X, Y, Z    Axis
	Yaw, Pitch Axis
	FOV        Axis

	home rigPose
}

type rigPose struct {
	pos             math3d.Vec3
	yaw, pitch, fov float64
}

// NewRig creates a rig starting from the camera's current pose. The pose
// is also what Reset returns to.
func NewRig(cam *render.Camera, fps int) *Rig {
	return &Rig{
		X:     NewAxis(fps, cam.Position.X),
		Y:     NewAxis(fps, cam.Position.Y),
		Z:     NewAxis(fps, cam.Position.Z),
		Yaw:   NewAxis(fps, cam.Yaw),
		Pitch: NewAxis(fps, cam.Pitch),
		FOV:   NewAxis(fps, cam.FOV),
		home: rigPose{
			pos:   cam.Position,
			yaw:   cam.Yaw,
			pitch: cam.Pitch,
			fov:   cam.FOV,
		},
	}
}

// Reset eases the camera back to its starting pose.
func (r *Rig) Reset() {
	r.X.Target, r.Y.Target, r.Z.Target = r.home.pos.X, r.home.pos.Y, r.home.pos.Z
	r.Yaw.Target = r.home.yaw
	r.Pitch.Target = r.home.pitch
	r.FOV.Target = r.home.fov
}

// forward is the horizontal view direction for the target yaw. Movement
// ignores pitch so walking never leaves the ground plane.
func (r *Rig) forward() math3d.Vec3 {
	return math3d.V3(-math.Sin(r.Yaw.Target), 0, -math.Cos(r.Yaw.Target))
}

func (r *Rig) right() math3d.Vec3 {
	return math3d.V3(math.Cos(r.Yaw.Target), 0, -math.Sin(r.Yaw.Target))
}

func (r *Rig) move(d math3d.Vec3) {
	r.X.Target += d.X
	r.Y.Target += d.Y
	r.Z.Target += d.Z
}

// Apply updates the targets for a motion command. It reports whether cmd
// was a motion command.
func (r *Rig) Apply(cmd Command) bool {
	switch cmd {
	case MoveForward:
		r.move(r.forward().Scale(MoveStep))
	case MoveBackward:
		r.move(r.forward().Scale(-MoveStep))
	case MoveLeft:
		r.move(r.right().Scale(-MoveStep))
	case MoveRight:
		r.move(r.right().Scale(MoveStep))
	case MoveDown:
		r.Y.Target -= MoveStep
	case MoveUp:
		r.Y.Target += MoveStep
	case WidenFOV:
		r.FOV.Target = min(r.FOV.Target+FOVStep, MaxFOV)
	case NarrowFOV:
		r.FOV.Target = max(r.FOV.Target-FOVStep, MinFOV)
	case TurnLeft:
		r.Yaw.Target += TurnStep
	case TurnRight:
		r.Yaw.Target -= TurnStep
	case LookUp:
		r.Pitch.Target = min(r.Pitch.Target+TurnStep, MaxPitch)
	case LookDown:
		r.Pitch.Target = max(r.Pitch.Target-TurnStep, -MaxPitch)
	case Reset:
		r.Reset()
	default:
		return false
	}
	return true
}

// Dolly moves the target along the view direction by d units.
func (r *Rig) Dolly(d float64) {
	r.move(r.forward().Scale(d))
}

// Update advances every spring by one frame and writes the pose to cam.
func (r *Rig) Update(cam *render.Camera) {
	for _, a := range []*Axis{&r.X, &r.Y, &r.Z, &r.Yaw, &r.Pitch, &r.FOV} {
		a.Update()
	}
	cam.Position = math3d.V3(r.X.Value, r.Y.Value, r.Z.Value)
	cam.Yaw = r.Yaw.Value
	cam.Pitch = r.Pitch.Value
	cam.FOV = min(max(r.FOV.Value, MinFOV), MaxFOV)
}

// Settled reports whether every axis has come to rest.
func (r *Rig) Settled() bool {
	const eps = 1e-4
	for _, a := range []*Axis{&r.X, &r.Y, &r.Z, &r.Yaw, &r.Pitch, &r.FOV} {
		if !a.Settled(eps) {
			return false
		}
	}
	return true
}
