package control

import (
	"math"
	"slices"
	"testing"

	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/render"
)

// keys returns a matcher that accepts any of the given pressed keys.
func keys(pressed ...string) func(...string) bool {
	return func(names ...string) bool {
		for _, n := range names {
			if slices.Contains(pressed, n) {
				return true
			}
		}
		return false
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		key  string
		want Command
	}{
		{"w", MoveForward},
		{"s", MoveBackward},
		{"q", MoveDown},
		{"e", MoveUp},
		{"z", WidenFOV},
		{"x", NarrowFOV},
		{"left", TurnLeft},
		{"down", LookDown},
		{"shift+/", ToggleOverlay},
		{"ctrl+c", Quit},
		{"k", None},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if have := Match(DefaultBindings, keys(tc.key)); have != tc.want {
				t.Errorf("have %v, want %v", have, tc.want)
			}
		})
	}
}

func TestBindingsAreUnique(t *testing.T) {
	seen := make(map[string]Command)
	for _, b := range DefaultBindings {
		for _, k := range b.Keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q bound to both %v and %v", k, prev, b.Command)
			}
			seen[k] = b.Command
		}
		if b.Command.String() == "unknown" {
			t.Errorf("binding %v has no name", b.Keys)
		}
	}
}

func settle(r *Rig, cam *render.Camera) {
	for range 600 {
		r.Update(cam)
	}
}

func TestRigMoves(t *testing.T) {
	cam := render.NewCameraAt(math3d.Zero3(), 0, math.Pi/3, 1, 0.1, 100)
	rig := NewRig(cam, 60)

	rig.Apply(MoveForward)
	rig.Apply(MoveForward)
	rig.Apply(MoveRight)
	rig.Apply(MoveUp)
	settle(rig, cam)

	want := math3d.V3(0.5, 0.5, -1)
	if cam.Position.Sub(want).Len() > 1e-3 {
		t.Errorf("position = %v, want %v", cam.Position, want)
	}
	if !rig.Settled() {
		t.Error("rig still moving after settling")
	}
}

func TestRigMovesAlongYaw(t *testing.T) {
	cam := render.NewCameraAt(math3d.Zero3(), 0, math.Pi/3, 1, 0.1, 100)
	rig := NewRig(cam, 60)
	for range 9 {
		rig.Apply(TurnLeft)
	}
	rig.Apply(MoveForward)
	settle(rig, cam)

	if math.Abs(cam.Yaw-math.Pi/2) > 1e-3 {
		t.Errorf("yaw = %v, want pi/2", cam.Yaw)
	}
	// Facing -X after a quarter turn left.
	if want := math3d.V3(-0.5, 0, 0); cam.Position.Sub(want).Len() > 1e-3 {
		t.Errorf("position = %v, want %v", cam.Position, want)
	}
	// The camera's own forward agrees with the rig.
	if f := cam.Forward(); f.Sub(math3d.V3(-1, 0, 0)).Len() > 1e-3 {
		t.Errorf("camera forward = %v", f)
	}
}

func TestRigClamps(t *testing.T) {
	cam := render.NewCameraAt(math3d.Zero3(), 0, math.Pi/3, 1, 0.1, 100)
	rig := NewRig(cam, 60)
	for range 40 {
		rig.Apply(WidenFOV)
		rig.Apply(LookUp)
	}
	if rig.FOV.Target != MaxFOV || rig.Pitch.Target != MaxPitch {
		t.Errorf("targets fov %v pitch %v", rig.FOV.Target, rig.Pitch.Target)
	}
	for range 40 {
		rig.Apply(NarrowFOV)
	}
	if rig.FOV.Target != MinFOV {
		t.Errorf("fov target = %v, want %v", rig.FOV.Target, MinFOV)
	}
	settle(rig, cam)
	if cam.FOV < MinFOV || cam.FOV > MaxFOV {
		t.Errorf("camera fov %v escaped its limits", cam.FOV)
	}
}

func TestRigReset(t *testing.T) {
	start := math3d.V3(0, 1, 5)
	cam := render.NewCameraAt(start, 0.3, math.Pi/3, 1, 0.1, 100)
	rig := NewRig(cam, 60)

	rig.Apply(MoveBackward)
	rig.Apply(TurnRight)
	rig.Apply(NarrowFOV)
	settle(rig, cam)
	if cam.Position.Sub(start).Len() < 0.4 {
		t.Fatal("rig did not move")
	}

	if !rig.Apply(Reset) {
		t.Fatal("Reset should be a motion command")
	}
	settle(rig, cam)
	if cam.Position.Sub(start).Len() > 1e-3 || math.Abs(cam.Yaw-0.3) > 1e-3 || math.Abs(cam.FOV-math.Pi/3) > 1e-3 {
		t.Errorf("after reset: pos %v yaw %v fov %v", cam.Position, cam.Yaw, cam.FOV)
	}
}

func TestRigIgnoresToggles(t *testing.T) {
	cam := render.NewCameraAt(math3d.Zero3(), 0, math.Pi/3, 1, 0.1, 100)
	rig := NewRig(cam, 60)
	for _, c := range []Command{None, ToggleGrid, ToggleOverlay, Quit} {
		if rig.Apply(c) {
			t.Errorf("%v handled as motion", c)
		}
	}
}

func TestAxisSnap(t *testing.T) {
	a := NewAxis(60, 0)
	a.Target = 10
	a.Update()
	if a.Value <= 0 || a.Value >= 10 {
		t.Errorf("after one frame value = %v, want between 0 and 10", a.Value)
	}
	a.Snap(3)
	if !a.Settled(0) || a.Value != 3 {
		t.Errorf("snap: %+v", a)
	}
}

func TestSpinDecays(t *testing.T) {
	s := NewSpin(60)
	s.Impulse(0.2)
	for range 600 {
		s.Update()
	}
	if math.Abs(s.Velocity) > 1e-6 {
		t.Errorf("velocity = %v, want decayed to zero", s.Velocity)
	}
	if s.Position <= 0.2 {
		t.Errorf("position = %v, want travel beyond the first step", s.Position)
	}
}
