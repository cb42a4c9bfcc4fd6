package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/wiretty/pkg/control"
	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/render"
)

const (
	mouseOn  = "\x1b[?1003h\x1b[?1006h" // any-event tracking, SGR extended mode
	mouseOff = "\x1b[?1003l\x1b[?1006l"

	dragSpeed   = 0.03 // spin impulse per cell dragged
	wheelStep   = 0.5
	maxFrameLag = 100 * time.Millisecond
)

func newViewCmd(opts *options) *cobra.Command {
	var (
		fps   int
		glyph bool
	)
	cmd := &cobra.Command{
		Use:   "view [file.glb|file.gltf]",
		Short: "Fly around a model in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fps < 1 {
				return fmt.Errorf("--fps %d: must be at least 1", fps)
			}
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			p := render.Presenter{Mode: render.HalfBlock}
			if glyph {
				p.Mode = render.Glyph
			}
			return runView(cmd.Context(), opts, path, fps, p)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "target frames per second")
	cmd.Flags().BoolVar(&glyph, "glyph", false, "draw one character per pixel instead of half blocks")
	return cmd
}

func runView(ctx context.Context, opts *options, path string, fps int, p render.Presenter) error {
	bg, fg, err := opts.colors()
	if err != nil {
		return err
	}
	fov, err := opts.fovRadians()
	if err != nil {
		return err
	}
	logs, err := opts.setupLogging()
	if err != nil {
		return err
	}
	defer logs.Close()

	w, err := loadWorld(path)
	if err != nil {
		return err
	}
	p.Background = bg

	tr := render.NewTerminalRenderer(uv.DefaultTerminal(), p)
	if err := tr.Open(); err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, mouseOn)
	defer func() {
		fmt.Fprint(os.Stdout, mouseOff)
		tr.Close()
	}()

	v := &viewer{
		world: w,
		tr:    tr,
		bg:    bg,
		hud:   NewHUD(w.name),
		spin:  control.NewSpin(fps),
	}
	v.fb = tr.Framebuffer()
	v.raster = render.NewRasterizer(v.fb)
	v.raster.Default = fg
	// Aspect 0 lets the camera ask the rasterizer, which tracks resizes.
	v.cam = render.NewCameraAt(math3d.V3(0, 0, 5), 0, fov, 0, opts.near, opts.far)
	v.rig = control.NewRig(v.cam, fps)

	render.Logger().Info("viewer started", "scene", w.name, "objects", w.objects.Len(), "mode", p.Mode.String(), "fps", fps)
	defer render.Logger().Info("viewer stopped", "frames", v.hud.Frame())

	targetDuration := time.Second / time.Duration(fps)
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if quit := v.drainEvents(); quit {
			return nil
		}
		if err := v.frame(); err != nil {
			return err
		}

		elapsed := time.Since(start)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		} else if elapsed > maxFrameLag {
			render.Logger().Debug("slow frame", "elapsed", elapsed)
		}
	}
}

// viewer is the interactive session state. All of it is owned by the
// frame loop; input is drained there rather than in a separate goroutine.
type viewer struct {
	world  *world
	tr     *render.TerminalRenderer
	fb     *render.Framebuffer
	raster *render.Rasterizer
	cam    *render.Camera
	rig    *control.Rig
	spin   control.Spin
	hud    *HUD
	bg     render.Color

	dragging     bool
	lastX, lastY int
}

// drainEvents handles every pending input event without blocking. It
// reports whether the user asked to quit.
func (v *viewer) drainEvents() (quit bool) {
	for {
		select {
		case ev, ok := <-v.tr.Events():
			if !ok {
				return true
			}
			if v.handle(ev) {
				return true
			}
		default:
			return false
		}
	}
}

func (v *viewer) handle(ev uv.Event) (quit bool) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		cmd := control.Match(control.DefaultBindings, ev.MatchString)
		if cmd == control.None {
			return false
		}
		v.hud.LastInput = cmd.String()
		if v.rig.Apply(cmd) {
			return false
		}
		switch cmd {
		case control.Quit:
			return true
		case control.ToggleGrid:
			v.world.showGuides = !v.world.showGuides
		case control.ToggleOverlay:
			v.hud.Visible = !v.hud.Visible
			if !v.hud.Visible {
				v.repaint()
			}
		case control.ToggleMatrices:
			v.hud.ShowMatrices = !v.hud.ShowMatrices
			v.repaint()
		case control.CyclePrimitive:
			v.hud.Status = ""
			v.hud.LastInput += " (" + v.world.cyclePrimitive() + ")"
		}

	case uv.MouseClickEvent:
		v.dragging = true
		v.lastX, v.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.dragging = false

	case uv.MouseMotionEvent:
		if v.dragging {
			v.spin.Impulse(float64(ev.X-v.lastX) * dragSpeed)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.rig.Dolly(wheelStep)
		case uv.MouseWheelDown:
			v.rig.Dolly(-wheelStep)
		}
	}
	return false
}

func (v *viewer) resize(cols, rows int) {
	v.tr.Resize(cols, rows)
	v.fb = v.tr.Framebuffer()
	v.raster.SetTarget(v.fb)
	render.Logger().Debug("resized", "cols", cols, "rows", rows, "width", v.fb.Width, "height", v.fb.Height)
}

// repaint forces the next flush to redraw every cell, wiping overlay text
// the cell buffer does not know about.
func (v *viewer) repaint() {
	v.resize(v.tr.Size())
}

// frame advances the animation and draws one frame.
func (v *viewer) frame() error {
	v.hud.Tick()
	v.rig.Update(v.cam)
	v.spin.Update()
	v.world.spin(v.spin.Position, v.hud.Frame())

	v.fb.Clear(v.bg)
	v.cam.ResetStats()
	v.raster.ResetStats()
	if err := v.world.draw(v.cam, v.raster); err != nil {
		if msg := err.Error(); msg != v.hud.Status {
			v.hud.Status = msg
			render.Logger().Warn("frame incomplete", slog.Any("error", err))
		}
	}

	v.tr.Render(v.fb)
	if err := v.tr.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	cols, rows := v.tr.Size()
	v.hud.Render(os.Stdout, cols, rows, frameInfo{
		cam:    v.cam,
		aspect: v.raster.AspectRatio(),
		model:  v.world.modelMatrix(),
		stats:  v.cam.Stats,
		raster: v.raster.Stats,
		mode:   primModes[v.world.prim].name,
	})
	return nil
}
