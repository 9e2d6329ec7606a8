package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/wobble-tower/game"
	"github.com/lixenwraith/wobble-tower/session"
	"github.com/lixenwraith/wobble-tower/stack"
)

// Cells per world unit; terminal cells are roughly twice as tall as wide
const (
	cellsPerUnitX = 4
	cellsPerUnitY = 2
	hudRows       = 4
)

var (
	stylePlatform    = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleStacked     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFalling     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleCelebration = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleHUD         = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleWarn        = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBanner      = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
	styleBoundary    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
)

// Renderer draws the session into a tcell screen
type Renderer struct {
	screen      tcell.Screen
	showMetrics bool
}

// NewRenderer creates a renderer on screen
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// ToggleMetrics switches the status registry panel
func (r *Renderer) ToggleMetrics() {
	r.showMetrics = !r.showMetrics
}

// project maps world space to a cell relative to the camera
func (r *Renderer) project(p mgl32.Vec3, cam mgl32.Vec3) (int, int) {
	w, h := r.screen.Size()
	cx := float32(w) / 2
	cy := float32(h) / 2
	x := cx + (p.X()-cam.X())*cellsPerUnitX
	y := cy - (p.Y()-cam.Y())*cellsPerUnitY
	return int(math32.Floor(x)), int(math32.Floor(y))
}

func (r *Renderer) fillBox(lo, hi mgl32.Vec3, cam mgl32.Vec3, ch rune, style tcell.Style) {
	w, h := r.screen.Size()
	x0, y1 := r.project(lo, cam)
	x1, y0 := r.project(hi, cam)
	for y := max(y0, hudRows); y < min(y1, h); y++ {
		for x := max(x0, 0); x < min(x1, w); x++ {
			r.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

// Draw renders one frame from g and its last snapshot
func (r *Renderer) Draw(g *game.Game, snap session.Snapshot, paused bool) {
	r.screen.Clear()
	cam := g.Camera.Position()

	r.drawBoundary(g, snap, cam)

	pb := g.World.PlatformBounds(snap.Platform)
	r.fillBox(pb.Min(), pb.Max(), cam, '▀', stylePlatform)

	for _, b := range g.World.Bodies() {
		style := styleFalling
		switch {
		case b.Celebration():
			style = styleCelebration
		case b.Frozen():
			style = styleStacked
		}
		bb := b.Bounds()
		r.fillBox(bb.Min(), bb.Max(), cam, '█', style)
	}

	r.drawHUD(g, snap, paused)
	r.screen.Show()
}

func (r *Renderer) drawBoundary(g *game.Game, snap session.Snapshot, cam mgl32.Vec3) {
	w, h := r.screen.Size()
	bound := g.Ctrl.Config().Boundary + g.World.Config().PlatformWidth/2
	_, row := r.project(snap.Platform, cam)
	for _, x := range []float32{-bound, bound} {
		col, _ := r.project(mgl32.Vec3{x, 0, 0}, cam)
		if col < 0 || col >= w {
			continue
		}
		for y := max(row-1, hudRows); y <= min(row+1, h-1); y++ {
			r.screen.SetContent(col, y, '│', nil, styleBoundary)
		}
	}
}

func (r *Renderer) drawHUD(g *game.Game, snap session.Snapshot, paused bool) {
	cfg := g.Ctrl.Config()

	r.text(0, 0, fmt.Sprintf("stack %d/%d   offset %.2f   wobble %.3f/%.3f",
		snap.Count, cfg.WinStackCount, snap.TotalOffset, snap.Amplitude, cfg.LoseThreshold), styleHUD)

	amp := styleHUD
	if snap.Amplitude >= cfg.LoseThreshold*0.75 {
		amp = styleWarn
	}
	r.text(0, 1, meter(snap.Amplitude, cfg.LoseThreshold, 30), amp)

	top := "empty"
	if !stack.IsEmptyHeight(snap.HighestPoint) {
		top = fmt.Sprintf("%.2f", snap.HighestPoint)
	}
	state := snap.Outcome.String()
	if paused {
		state += " (paused)"
	}
	r.text(0, 2, fmt.Sprintf("top %s   platform %.2f   %s", top, snap.Platform.X(), state), styleHUD)
	r.text(0, 3, "←/→ a/d move   p pause   r reset   m metrics   q quit", styleBoundary)

	if r.showMetrics {
		for i, line := range g.Status.Lines() {
			r.text(0, hudRows+i, line, styleHUD)
		}
	}

	if outcome, ended := g.Ended(); ended {
		msg := " TOWER COMPLETE: r to play again, q to quit "
		if outcome == session.Lost {
			msg = " TOWER COLLAPSED: r to try again, q to quit "
		}
		w, h := r.screen.Size()
		r.text((w-len([]rune(msg)))/2, h/2, msg, styleBanner)
	}
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	w, h := r.screen.Size()
	if y < 0 || y >= h {
		return
	}
	for _, ch := range s {
		if x >= w {
			return
		}
		if x >= 0 {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
}

// meter renders value/limit as a fixed-width bar
func meter(value, limit float32, width int) string {
	filled := 0
	if limit > 0 {
		filled = int(math32.Round(value / limit * float32(width)))
	}
	filled = max(0, min(filled, width))

	bar := make([]rune, 0, width+2)
	bar = append(bar, '[')
	for i := 0; i < width; i++ {
		if i < filled {
			bar = append(bar, '#')
		} else {
			bar = append(bar, '.')
		}
	}
	return string(append(bar, ']'))
}
