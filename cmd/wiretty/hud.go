package main

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/taigrr/wiretty/pkg/math3d"
	"github.com/taigrr/wiretty/pkg/render"
)

// frameInfo is the per-frame state the HUD reports on.
type frameInfo struct {
	cam    *render.Camera
	aspect float64
	model  math3d.Mat4 // first object's transform
	stats  render.RenderStats
	raster render.RasterStats
	mode   string // primitive drawing mode
}

// HUD renders an info overlay on top of the frame.
type HUD struct {
	name string

	Visible      bool
	ShowMatrices bool
	LastInput    string
	Status       string // last warning, shown until replaced

	frame     int
	fps       float64
	fpsFrames int
	fpsTime   time.Time

	text, label, warn lipgloss.Style
}

// NewHUD creates a HUD for the named scene.
func NewHUD(name string) *HUD {
	base := lipgloss.NewStyle().Background(lipgloss.Color("#101018"))
	return &HUD{
		name:      name,
		Visible:   true,
		LastInput: "none",
		fpsTime:   time.Now(),
		text:      base.Foreground(lipgloss.Color("#e0e0e0")),
		label:     base.Foreground(lipgloss.Color("#5fd7ff")).Bold(true),
		warn:      base.Foreground(lipgloss.Color("#ffd75f")),
	}
}

// Tick counts a frame and updates the FPS estimate (call once per frame).
func (h *HUD) Tick() {
	h.frame++
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Frame returns the number of frames counted so far.
func (h *HUD) Frame() int {
	return h.frame
}

// Lines returns the plain overlay text: the block anchored at the top left
// and the block anchored at the bottom left.
func (h *HUD) Lines(info frameInfo) (top, bottom []string) {
	cam := info.cam
	top = []string{
		fmt.Sprintf("%s  frame #%d  %.0f fps", h.name, h.frame, h.fps),
		fmt.Sprintf("last input: %s", h.LastInput),
		fmt.Sprintf("cam pos: (%.3f, %.3f, %.3f)", cam.Position.X, cam.Position.Y, cam.Position.Z),
		fmt.Sprintf("cam yaw: %.1f  pitch: %.1f", degreesOf(cam.Yaw), degreesOf(cam.Pitch)),
		fmt.Sprintf("cam fov: %.1f", degreesOf(cam.FOV)),
		fmt.Sprintf("cam aspect: %.3f", info.aspect),
		fmt.Sprintf("objects: %d drawn, %d culled  mode: %s",
			info.stats.ObjectsTested-info.stats.ObjectsCulled, info.stats.ObjectsCulled, info.mode),
		fmt.Sprintf("segments: %d drawn, %d dropped  pixels: %d",
			info.stats.SegmentsDrawn, info.stats.SegmentsDropped, info.raster.Pixels),
	}
	if h.Status != "" {
		top = append(top, h.Status)
	}

	if !h.ShowMatrices {
		return top, nil
	}
	view, err := cam.ViewMatrix()
	if err != nil {
		view = math3d.Identity()
	}
	bottom = append(bottom, "projection matrix:")
	bottom = append(bottom, strings.Split(cam.ProjectionMatrix(info.aspect).String(), "\n")...)
	bottom = append(bottom, "view matrix:")
	bottom = append(bottom, strings.Split(view.String(), "\n")...)
	bottom = append(bottom, "model matrix:")
	bottom = append(bottom, strings.Split(info.model.String(), "\n")...)
	return top, bottom
}

// Render draws the overlay directly to the terminal after the frame has
// been flushed. cols and rows are the terminal size in cells.
func (h *HUD) Render(w io.Writer, cols, rows int, info frameInfo) {
	if !h.Visible || cols <= 0 || rows <= 0 {
		return
	}
	top, bottom := h.Lines(info)

	var sb strings.Builder
	h.writeBlock(&sb, top, 1, cols, rows)
	h.writeBlock(&sb, bottom, rows-len(bottom)+1, cols, rows)
	io.WriteString(w, sb.String())
}

func (h *HUD) writeBlock(sb *strings.Builder, lines []string, row, cols, rows int) {
	width := 0
	for _, l := range lines {
		width = max(width, ansi.StringWidth(l))
	}
	width = min(width, cols)

	for i, l := range lines {
		r := row + i
		if r < 1 || r > rows {
			continue
		}
		style := h.text
		switch {
		case i == 0 || strings.HasSuffix(l, ":"):
			style = h.label
		case h.Status != "" && l == h.Status:
			style = h.warn
		}

		l = ansi.Truncate(l, width, "…")
		// Pad to the block width so shorter updates overwrite older text.
		l += strings.Repeat(" ", width-ansi.StringWidth(l))
		sb.WriteString(ansi.CursorPosition(1, r))
		sb.WriteString(style.Render(l))
	}
}

func degreesOf(rad float64) float64 {
	return rad * 180 / math.Pi
}
