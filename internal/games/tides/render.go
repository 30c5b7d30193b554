package tides

import (
	"fmt"

	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/tide"
)

// Minimum screen size for the full layout
const (
	MinScreenW = 44
	MinScreenH = 18
)

// Visual characters for rendering
const (
	WaterChar     = '█'
	EmptyChar     = '·'
	BandEdgeChar  = '┊'
	IndicatorChar = '▲'
)

const (
	buttonW = 15
	buttonH = 3
)

// layout holds the positions of every widget for one screen size.
type layout struct {
	meter core.Rect // framed meter, one interior row
	ease  core.Rect
	send  core.Rect
	small bool
}

func layoutFor(w, h int) layout {
	if w < MinScreenW || h < MinScreenH {
		return layout{small: true}
	}

	meterY := h/2 - 4
	meter := core.NewRect(4, meterY, w-8, 3)

	buttonY := meterY + 6
	ease := core.NewRect(w/2-2-buttonW, buttonY, buttonW, buttonH)
	send := core.NewRect(w/2+2, buttonY, buttonW, buttonH)

	return layout{meter: meter, ease: ease, send: send}
}

// ButtonAt reports which on-screen button covers the cell (x, y), if any.
// The platform uses it to turn pointer events into actions.
func (g *Game) ButtonAt(x, y int) core.Action {
	l := layoutFor(g.runtime.ScreenW, g.runtime.ScreenH)
	if l.small {
		return core.ActionNone
	}
	switch {
	case l.ease.Contains(x, y):
		return core.ActionEase
	case l.send.Contains(x, y):
		return core.ActionSend
	default:
		return core.ActionNone
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.sim == nil {
		dst.DrawTextCenteredColor(dst.Height()/2, g.Title(), core.ColorFoam)
		return
	}

	// Keep hit-testing in step with what is on screen
	g.runtime.ScreenW, g.runtime.ScreenH = dst.Width(), dst.Height()

	l := layoutFor(dst.Width(), dst.Height())
	if l.small {
		g.renderSmall(dst)
		return
	}

	g.drawHUD(dst)
	g.drawMeter(dst, l.meter)
	g.drawButton(dst, l.ease, "EASE TIDE", tide.DirEase)
	g.drawButton(dst, l.send, "SEND WAVE", tide.DirSend)

	dst.DrawTextCenteredColor(dst.Height()-1, "A/← ease tide   D/→ send wave   Space let go   P pause", core.ColorGray)

	switch {
	case g.snap.GameOver():
		g.drawBanner(dst, core.ColorDanger,
			"GAME OVER",
			g.snap.Reason.Message(),
			fmt.Sprintf("Score: %d   Best: %d", g.snap.RoundedScore, g.HighScore()),
			"Press R to retry",
		)
	case g.paused:
		g.drawBanner(dst, core.ColorSand, "PAUSED", "Press P to resume")
	}
}

func (g *Game) drawHUD(dst *core.Screen) {
	dst.DrawTextCenteredColor(0, "~ "+g.Title()+" ~", core.ColorFoam)

	harmonyColor := core.ColorGreen
	if !g.snap.InBalance {
		harmonyColor = core.ColorYellow
	}
	if g.snap.InDanger {
		harmonyColor = core.ColorDanger
	}
	dst.DrawTextColor(2, 2, fmt.Sprintf("Harmony: %3d%%", g.snap.HarmonyPercent), harmonyColor)

	score := fmt.Sprintf("Score: %d   Best: %d", g.snap.RoundedScore, g.HighScore())
	dst.DrawTextColor(dst.Width()-2-len(score), 2, score, core.ColorWhite)

	if g.difficulty != nil && g.difficulty.IsEnabled() {
		swell := fmt.Sprintf("Swell: %d%%", g.difficulty.Percent(g.sim.State()))
		dst.DrawTextCenteredColor(2, swell, core.ColorCyan)
	}

	if g.snap.GameOver() {
		return
	}

	p := g.sim.Params()
	switch {
	case g.snap.InDanger:
		left := float64(p.EdgeTicksLimit-g.snap.EdgeTicks) / float64(p.TickRate)
		dst.DrawTextCenteredColor(3, fmt.Sprintf("! the tide nears the edge: %.1fs !", max(left, 0)), core.ColorDanger)
	case !g.snap.InBalance:
		left := float64(p.ImbalanceTicksLimit-g.snap.ImbalanceTicks) / float64(p.TickRate)
		dst.DrawTextCenteredColor(3, fmt.Sprintf("out of balance: %.1fs", max(left, 0)), core.ColorYellow)
	}
}

// drawMeter draws the tide level as a horizontal gauge, low on the left.
func (g *Game) drawMeter(dst *core.Screen, r core.Rect) {
	dst.DrawBoxColor(r, core.ColorSand)

	p := g.sim.Params()
	inner := r.W - 2
	y := r.Y + 1
	level := int(g.snap.Balance * float64(inner))

	for i := 0; i < inner; i++ {
		v := (float64(i) + 0.5) / float64(inner)
		x := r.X + 1 + i
		switch {
		case i < level:
			c := core.ColorDeep
			if v >= p.BalanceLow && v <= p.BalanceHigh {
				c = core.ColorShallow
			}
			if v < p.DangerLow || v > p.DangerHigh {
				c = core.ColorDanger
			}
			dst.SetColor(x, y, WaterChar, c)
		default:
			dst.SetColor(x, y, EmptyChar, core.ColorGray)
		}
	}

	// Mark the balanced band on the frame
	for _, b := range []float64{p.BalanceLow, p.BalanceHigh} {
		x := r.X + 1 + int(b*float64(inner))
		dst.SetColor(x, r.Y, BandEdgeChar, core.ColorFoam)
		dst.SetColor(x, r.Bottom()-1, BandEdgeChar, core.ColorFoam)
	}

	indicatorX := r.X + 1 + core.Clamp(level, 0, inner-1)
	indicatorColor := core.ColorGreen
	if !g.snap.InBalance {
		indicatorColor = core.ColorDanger
	}
	dst.SetColor(indicatorX, r.Bottom(), IndicatorChar, indicatorColor)

	labelY := r.Bottom() + 1
	dst.DrawTextColor(r.X, labelY, "LOW", core.ColorSand)
	dst.DrawTextCenteredColor(labelY, "BALANCED", core.ColorSand)
	dst.DrawTextColor(r.Right()-len("HIGH"), labelY, "HIGH", core.ColorSand)
}

func (g *Game) drawButton(dst *core.Screen, r core.Rect, label string, dir tide.Direction) {
	c := core.ColorSand
	if g.held == dir && !g.snap.GameOver() {
		c = core.ColorHighlite
		dst.FillRect(core.NewRect(r.X+1, r.Y+1, r.W-2, 1), '░', c)
	}
	dst.DrawBoxColor(r, c)
	dst.DrawTextColor(r.X+(r.W-len(label))/2, r.Y+1, label, c)
}

// drawBanner draws a boxed message in the center of the screen.
func (g *Game) drawBanner(dst *core.Screen, c core.Color, lines ...string) {
	w := 0
	for _, line := range lines {
		w = max(w, len([]rune(line)))
	}
	boxW := min(w+4, dst.Width())
	boxH := len(lines) + 2
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBoxColor(box, c)
	for i, line := range lines {
		lc := core.ColorWhite
		if i == 0 {
			lc = c
		}
		dst.DrawTextCenteredColor(box.Y+1+i, line, lc)
	}
}

// renderSmall is the plain fallback when the full layout does not fit.
func (g *Game) renderSmall(dst *core.Screen) {
	if !g.smallWarned {
		logger.Warn("screen too small for full layout", "width", dst.Width(), "height", dst.Height(),
			"min_width", MinScreenW, "min_height", MinScreenH)
		g.smallWarned = true
	}

	lines := []string{
		g.Title(),
		fmt.Sprintf("Tide %.2f", g.snap.Balance),
		fmt.Sprintf("Harmony %d%%", g.snap.HarmonyPercent),
		fmt.Sprintf("Score %d", g.snap.RoundedScore),
	}
	if g.snap.GameOver() {
		lines = append(lines, "GAME OVER - R")
	} else if g.paused {
		lines = append(lines, "PAUSED")
	}
	for i, line := range lines {
		dst.DrawText(0, i, line)
	}
}
