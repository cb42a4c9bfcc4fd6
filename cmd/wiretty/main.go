// wiretty - terminal wireframe renderer
// Projects scene geometry onto the terminal's character grid in software.
//
// Controls (view):
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Q/E         - Move down/up
//	Z/X         - Widen/narrow field of view
//	Arrows      - Turn and look up/down
//	Mouse drag  - Spin the scene
//	Scroll      - Move forward/back
//	G           - Toggle floor grid and axes
//	P           - Draw as points, lines or triangles
//	?           - Toggle info overlay
//	M           - Toggle matrix dump
//	R           - Reset camera
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/wiretty/pkg/render"
)

var version = "dev"

// options are the flags shared by every command.
type options struct {
	fov      float64 // degrees
	near     float64
	far      float64
	bg       string
	fg       string
	logFile  string
	logLevel string
}

func (o *options) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.Float64Var(&o.fov, "fov", 60, "vertical field of view in degrees")
	f.Float64Var(&o.near, "near", 0.1, "near clipping plane distance")
	f.Float64Var(&o.far, "far", 100, "far clipping plane distance")
	f.StringVar(&o.bg, "bg", "30,30,40", "background color (#rrggbb or r,g,b)")
	f.StringVar(&o.fg, "fg", "#00ff80", "default line color (#rrggbb or r,g,b)")
	f.StringVar(&o.logFile, "log-file", "", "write render logs to this file")
	f.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// colors parses the background and default foreground.
func (o *options) colors() (bg, fg render.Color, err error) {
	if bg, err = render.ParseColor(o.bg); err != nil {
		return bg, fg, fmt.Errorf("--bg: %w", err)
	}
	if fg, err = render.ParseColor(o.fg); err != nil {
		return bg, fg, fmt.Errorf("--fg: %w", err)
	}
	return bg, fg, nil
}

// fovRadians validates and converts the --fov flag.
func (o *options) fovRadians() (float64, error) {
	if o.fov <= 0 || o.fov >= 180 {
		return 0, fmt.Errorf("--fov %v: must be between 0 and 180 degrees", o.fov)
	}
	return o.fov * math.Pi / 180, nil
}

// setupLogging points the render logger at --log-file. The terminal is
// busy showing frames, so nothing is logged unless a file is given.
func (o *options) setupLogging() (io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	if o.logFile == "" {
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	render.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "wiretty",
		Short: "Terminal wireframe renderer",
		Long: "wiretty projects 3D wireframes onto the terminal's character grid.\n" +
			"Without a file it shows a bobbing, spinning cube.",
		SilenceUsage: true,
	}
	opts.register(root)
	root.AddCommand(
		newViewCmd(opts),
		newSnapshotCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
