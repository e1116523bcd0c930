package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/hordewave/arena"
	"github.com/milk9111/hordewave/session"
)

const hudRows = 2

var stateStyles = map[string]tcell.Style{
	"idle":     tcell.StyleDefault.Foreground(tcell.ColorWhite),
	"patrol":   tcell.StyleDefault.Foreground(tcell.ColorSilver),
	"alert":    tcell.StyleDefault.Foreground(tcell.ColorYellow),
	"chase":    tcell.StyleDefault.Foreground(tcell.ColorOrange),
	"attack":   tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
	"cooldown": tcell.StyleDefault.Foreground(tcell.ColorBlue),
	"stunned":  tcell.StyleDefault.Foreground(tcell.ColorPurple),
	"dead":     tcell.StyleDefault.Foreground(tcell.ColorGray),
}

var (
	wallStyle     = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	obstacleStyle = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	targetStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	shotStyle     = tcell.StyleDefault.Foreground(tcell.ColorFuchsia)
	hudStyle      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	rangeStyle    = tcell.StyleDefault.Foreground(tcell.ColorDarkSlateGray)
)

// renderer maps arena coordinates onto the terminal grid below a HUD.
type renderer struct {
	screen tcell.Screen
	arena  *arena.Arena
	ranges bool
}

func (r *renderer) cell(p cp.Vector) (int, int) {
	w, h := r.screen.Size()
	rows := max(h-hudRows, 1)
	x := int(p.X / r.arena.Width * float64(w))
	y := int(p.Y/r.arena.Height*float64(rows)) + hudRows
	return min(max(x, 0), w-1), min(max(y, hudRows), h-1)
}

func (r *renderer) fill(bb cp.BB, ch rune, style tcell.Style) {
	x0, y0 := r.cell(cp.Vector{X: bb.L, Y: bb.B})
	x1, y1 := r.cell(cp.Vector{X: bb.R, Y: bb.T})
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.screen.SetContent(x, y, ch, nil, style)
		}
	}
}

func (r *renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// ring marks the cells on a circle, used for the selected enemy's
// detection and lose-aggro ranges.
func (r *renderer) ring(c cp.Vector, radius float64, ch rune) {
	if radius <= 0 {
		return
	}
	const steps = 48
	for i := 0; i < steps; i++ {
		p := c.Add(cp.ForAngle(2 * math.Pi * float64(i) / steps).Mult(radius))
		x, y := r.cell(p)
		r.screen.SetContent(x, y, ch, nil, rangeStyle)
	}
}

func glyph(ev session.EnemyView) rune {
	if ev.Dead {
		return '%'
	}
	ch := 'e'
	if ev.Archetype != "" {
		ch = rune(ev.Archetype[0])
	}
	if ev.Boss != "" {
		ch = rune(strings.ToUpper(string(ch))[0])
	}
	return ch
}

func (r *renderer) Draw(v session.View, selected int, paused bool) {
	r.screen.Clear()

	for _, bb := range r.arena.Solids {
		r.fill(bb, '#', wallStyle)
	}
	for _, bb := range r.arena.Obstacles {
		r.fill(bb, '=', obstacleStyle)
	}

	if r.ranges && selected >= 0 && selected < len(v.Enemies) {
		ev := v.Enemies[selected]
		r.ring(ev.Position, ev.LoseAggroRange, ':')
		r.ring(ev.Position, ev.DetectionRange, '.')
	}

	for _, p := range v.Projectiles {
		x, y := r.cell(p)
		r.screen.SetContent(x, y, '*', nil, shotStyle)
	}
	for _, tv := range v.Targets {
		x, y := r.cell(tv.Position)
		r.screen.SetContent(x, y, '@', nil, targetStyle)
	}
	for i, ev := range v.Enemies {
		x, y := r.cell(ev.Position)
		style, ok := stateStyles[ev.State]
		if !ok {
			style = tcell.StyleDefault
		}
		if i == selected {
			style = style.Reverse(true)
		}
		r.screen.SetContent(x, y, glyph(ev), nil, style)
	}

	r.text(0, 0, hudLine(v, paused), hudStyle)
	if selected >= 0 && selected < len(v.Enemies) {
		r.text(0, 1, enemyLine(v.Enemies[selected]), hudStyle)
	} else {
		r.text(0, 1, "arrows/hl move  space swing  tab select  r ranges  p pause  q quit", hudStyle)
	}
	r.screen.Show()
}

func hudLine(v session.View, paused bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "wave %d (%s", v.Wave, v.WaveState)
	if v.BossWave {
		b.WriteString(", boss")
	}
	fmt.Fprintf(&b, ")  alive %d  kills %d  t=%.1fs", v.Alive, v.Kills, v.Time)
	for _, tv := range v.Targets {
		fmt.Fprintf(&b, "  %s %.0f/%.0f", tv.Name, tv.Health, tv.MaxHealth)
	}
	if paused {
		b.WriteString("  [paused]")
	}
	return b.String()
}

func enemyLine(ev session.EnemyView) string {
	s := fmt.Sprintf("#%s %s  %s/%s  hp %.0f/%.0f", ev.Entity, ev.Archetype, ev.State, ev.Combat, ev.Health, ev.MaxHealth)
	if ev.Boss != "" {
		s += "  boss " + ev.Boss
	}
	return s
}
