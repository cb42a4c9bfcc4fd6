package main

import (
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"
	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/render"
)

type snapshotOptions struct {
	width, height int
	scale         int
	out           string
	caption       string
	bare          bool
	yaw           float64 // degrees around the scene
	elevation     float64
	distance      float64
	frame         int
	ascii         bool
	noGuides      bool
}

func newSnapshotCmd(opts *options) *cobra.Command {
	so := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot [file.glb|file.gltf]",
		Short: "Render one frame to a PNG or as text",
		Long: "snapshot renders a single frame from a camera orbiting the scene.\n" +
			"With --ascii the frame is printed as a character grid of --width x --height cells.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runSnapshot(cmd.OutOrStdout(), opts, so, path)
		},
	}
	f := cmd.Flags()
	f.IntVar(&so.width, "width", 160, "frame width in pixels (cells with --ascii)")
	f.IntVar(&so.height, "height", 96, "frame height in pixels (cells with --ascii)")
	f.IntVar(&so.scale, "scale", 4, "PNG pixel size")
	f.StringVarP(&so.out, "out", "o", "frame.png", "PNG output path")
	f.StringVar(&so.caption, "caption", "", "caption text (default: scene name and frame)")
	f.BoolVar(&so.bare, "bare", false, "omit the caption strip")
	f.Float64Var(&so.yaw, "yaw", 30, "camera angle around the scene in degrees")
	f.Float64Var(&so.elevation, "elevation", 2, "camera height above the origin")
	f.Float64Var(&so.distance, "distance", 6, "camera distance from the origin axis")
	f.IntVar(&so.frame, "frame", 0, "demo animation frame")
	f.BoolVar(&so.ascii, "ascii", false, "print the frame as text instead of writing a PNG")
	f.BoolVar(&so.noGuides, "no-guides", false, "hide the floor grid and axes")
	return cmd
}

func runSnapshot(stdout io.Writer, opts *options, so *snapshotOptions, path string) error {
	if so.width < 1 || so.height < 1 {
		return fmt.Errorf("frame size %dx%d: must be positive", so.width, so.height)
	}
	if so.distance <= 0 {
		return fmt.Errorf("--distance %v: must be positive", so.distance)
	}
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
	w.showGuides = !so.noGuides
	w.animate(so.frame)

	fb := render.NewFramebuffer(so.width, so.height)
	p := render.Presenter{Mode: render.Glyph, Background: bg}
	if so.ascii {
		fb = p.NewFramebuffer(so.width, so.height)
	}
	fb.Clear(bg)

	cam, err := orbitCamera(so.yaw*math.Pi/180, so.elevation, so.distance, fov, opts.near, opts.far)
	if err != nil {
		return err
	}
	r := render.NewRasterizer(fb)
	r.Default = fg
	drawErr := w.draw(cam, r)
	if drawErr != nil {
		render.Logger().Warn("snapshot incomplete", "error", drawErr)
	}
	render.Logger().Info("snapshot",
		"scene", w.name,
		"segments", cam.Stats.SegmentsDrawn,
		"points", cam.Stats.PointsDrawn,
		"culled", cam.Stats.ObjectsCulled,
		"pixels", r.Stats.Pixels,
	)

	if so.ascii {
		if _, err := io.WriteString(stdout, p.Text(fb)); err != nil {
			return err
		}
		return drawErr
	}

	if !so.bare {
		caption := so.caption
		if caption == "" {
			caption = fmt.Sprintf("%s  frame %d", w.name, so.frame)
		}
		drawCaption(fb, caption)
	}
	if err := fb.SavePNG(so.out, so.scale); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s (%dx%d)\n", so.out, so.width*so.scale, so.height*so.scale)
	return drawErr
}

// orbitCamera places a camera on a circle around the Y axis looking at
// the origin. yaw 0 is on the +Z side.
func orbitCamera(yaw, elevation, distance, fov, near, far float64) (*render.Camera, error) {
	pos := math3d.V3(distance*math.Sin(yaw), elevation, distance*math.Cos(yaw))
	cam := render.NewCameraAt(pos, yaw, fov, 0, near, far)
	if err := cam.LookAt(math3d.Zero3()); err != nil {
		return nil, fmt.Errorf("aim camera: %w", err)
	}
	return cam, nil
}

// drawCaption writes text on a dark strip along the bottom edge.
func drawCaption(fb *render.Framebuffer, text string) {
	const pad = 2
	h := render.TextHeight + pad
	if fb.Height < h*2 {
		return
	}
	top := fb.Height - h
	fb.DrawRect(0, top, fb.Width, h, render.Blend(render.ColorBlack, fb.GetPixel(0, 0), 0.3))
	fb.DrawText(pad, top+1, text, render.ColorWhite)
}
