package tides

import (
	"math"
	"strings"
	"testing"

	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/tide"
)

func testConfig(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// stillParams keeps the tide motionless so only player force moves it.
func stillParams() tide.Params {
	p := tide.ZenParams()
	p.StartSpeedMin, p.StartSpeedSpread = 0, 0
	p.StartAmpMin, p.StartAmpSpread = 0, 0
	return p
}

func TestVariants(t *testing.T) {
	tests := []struct {
		g     *Game
		id    string
		title string
	}{
		{New(), "tides", "Tides of Time"},
		{NewZen(), "tides_zen", "Tides of Time (Zen)"},
	}
	for _, tc := range tests {
		if tc.g.ID() != tc.id {
			t.Errorf("ID() = %q, expected %q", tc.g.ID(), tc.id)
		}
		if tc.g.Title() != tc.title {
			t.Errorf("Title() = %q, expected %q", tc.g.Title(), tc.title)
		}
	}

	zen := NewZen()
	zen.Reset(testConfig(1))
	if zen.sim.Params().RampEnabled {
		t.Error("zen variant should run without the ramp")
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := make([]core.InputFrame, 600)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		switch i % 90 {
		case 0:
			inputs[i].Set(core.ActionSend)
		case 45:
			inputs[i].Set(core.ActionEase)
		}
	}

	run := func() Snapshot {
		g := New()
		g.Reset(testConfig(777))
		for _, in := range inputs {
			if g.Step(in).State.GameOver {
				break
			}
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	if a != b {
		t.Errorf("same seed and inputs diverged:\n%+v\n%+v", a, b)
	}
}

func TestKeyPressHoldsForHoldTicks(t *testing.T) {
	SetHoldTicks(5)
	defer SetHoldTicks(0)

	g := New()
	g.Reset(testConfig(1))
	g.sim = tide.New(stillParams(), 1)

	g.Step(frame(core.ActionSend))
	for i := 1; i <= 5; i++ {
		snap := g.Snapshot()
		if snap.Direction != tide.DirSend {
			t.Fatalf("tick %d: direction = %v, expected send", i, snap.Direction)
		}
		g.Step(core.NewInputFrame())
	}

	if snap := g.Snapshot(); snap.Held != tide.DirIdle || snap.Direction != tide.DirIdle {
		t.Errorf("hold should expire after 5 ticks, got held=%v direction=%v", snap.Held, snap.Direction)
	}
}

func TestKeyRepeatRefreshesHold(t *testing.T) {
	SetHoldTicks(4)
	defer SetHoldTicks(0)

	g := New()
	g.Reset(testConfig(1))
	g.sim = tide.New(stillParams(), 1)

	// A held key auto-repeats every few ticks
	for i := 0; i < 40; i++ {
		in := core.NewInputFrame()
		if i%3 == 0 {
			in.Set(core.ActionEase)
		}
		g.Step(in)
		if g.Snapshot().Direction != tide.DirEase {
			t.Fatalf("tick %d: repeat should keep easing", i)
		}
	}
}

func TestPointerHoldLatchesUntilRelease(t *testing.T) {
	SetHoldTicks(3)
	defer SetHoldTicks(0)

	g := New()
	g.Reset(testConfig(1))
	g.sim = tide.New(stillParams(), 1)

	g.Step(frame(core.ActionSend, core.ActionHold))
	for i := 0; i < 20; i++ {
		g.Step(core.NewInputFrame())
	}
	snap := g.Snapshot()
	if !snap.Latched || snap.Direction != tide.DirSend {
		t.Fatalf("pointer hold should persist, got %+v", snap)
	}

	g.Step(frame(core.ActionRelease))
	if snap := g.Snapshot(); snap.Held != tide.DirIdle || snap.Direction != tide.DirIdle {
		t.Errorf("release should let go, got held=%v direction=%v", snap.Held, snap.Direction)
	}
}

func TestQuickPointerClickPushesOneTick(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.sim = tide.New(stillParams(), 1)

	// Press and release land in the same frame
	g.Step(frame(core.ActionSend, core.ActionHold, core.ActionRelease))
	snap := g.Snapshot()
	if snap.Direction != tide.DirSend || snap.PlayerForce <= 0 {
		t.Fatalf("quick click should push for one tick, got direction=%v force=%v", snap.Direction, snap.PlayerForce)
	}
	if snap.Latched {
		t.Error("a released click must not latch")
	}

	g.Step(core.NewInputFrame())
	if snap := g.Snapshot(); snap.Held != tide.DirIdle || snap.Direction != tide.DirIdle {
		t.Errorf("click should be over after one tick, got held=%v direction=%v", snap.Held, snap.Direction)
	}
}

func TestOppositePushesCancel(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.Step(frame(core.ActionEase, core.ActionSend))
	if d := g.Snapshot().Direction; d != tide.DirIdle {
		t.Errorf("ease+send in one frame should cancel, got %v", d)
	}
}

func TestStepBeforeReset(t *testing.T) {
	g := New()
	res := g.Step(frame(core.ActionSend))
	if res.State.GameOver || res.State.Ticks != 0 {
		t.Errorf("Step before Reset should be a no-op, got %+v", res.State)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Tides of Time") {
		t.Error("render before Reset should show the title")
	}
	if g.Snapshot().Swell != 0 {
		t.Error("swell before Reset should be 0")
	}
}

func TestResetReusesSimulator(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	sim := g.sim
	for i := 0; i < 30; i++ {
		g.Step(frame(core.ActionSend))
	}

	g.Reset(testConfig(2))
	if g.sim != sim {
		t.Fatal("restart with unchanged params should reseed the same simulator")
	}
	want := tide.New(sim.Params(), 2).State()
	if got := g.sim.State(); got != want {
		t.Errorf("reseeded round = %+v, expected fresh round %+v", got, want)
	}
}

func TestTickRateKeepsTimingInSeconds(t *testing.T) {
	g := New()
	cfg := testConfig(1)
	cfg.TickRate = 30
	g.Reset(cfg)

	p := g.sim.Params()
	def := tide.DefaultParams()
	if p.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", p.TickRate)
	}
	if p.EdgeTicksLimit != def.EdgeTicksLimit/2 || p.ImbalanceTicksLimit != def.ImbalanceTicksLimit/2 {
		t.Errorf("limits = %d/%d, expected half of %d/%d",
			p.EdgeTicksLimit, p.ImbalanceTicksLimit, def.EdgeTicksLimit, def.ImbalanceTicksLimit)
	}
	if g.holdTicks != 15 {
		t.Errorf("hold window = %d ticks, expected 15 at 30 ticks per second", g.holdTicks)
	}
}

func TestSwellFollowsTide(t *testing.T) {
	g := New()
	g.Reset(testConfig(5))

	st := g.sim.State()
	p := tide.DefaultParams()
	amp := (st.OscAmplitude - p.StartAmpMin) / (p.AmpCap - p.StartAmpMin)
	speed := (st.OscSpeed - p.StartSpeedMin) / (p.SpeedCap - p.StartSpeedMin)
	want := int(math.Round(math.Min(math.Max((amp+speed)/2, 0), 1) * 100))
	if got := g.Snapshot().Swell; got != want {
		t.Errorf("Swell = %d, expected %d from the tide state", got, want)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Swell:") {
		t.Error("classic HUD should show the swell")
	}

	zen := NewZen()
	zen.Reset(testConfig(5))
	zen.Render(screen)
	if strings.Contains(screen.String(), "Swell:") {
		t.Error("zen HUD should not show the swell")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))

	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	g.Step(frame(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("expected paused state")
	}
	ticks := g.State().Ticks

	for i := 0; i < 30; i++ {
		g.Step(frame(core.ActionSend))
	}
	if g.State().Ticks != ticks {
		t.Errorf("paused game advanced from %d to %d ticks", ticks, g.State().Ticks)
	}

	g.Step(frame(core.ActionPause))
	if g.State().Paused || g.State().Ticks != ticks+1 {
		t.Errorf("unpause should resume on the same frame, got %+v", g.State())
	}
}

func TestGameOverAndReset(t *testing.T) {
	p := stillParams()
	p.ForceLimit = 0.6

	g := New()
	g.Reset(testConfig(1))
	g.sim = tide.New(p, 1)

	g.Step(frame(core.ActionEase, core.ActionHold))
	for i := 0; i < 200 && !g.State().GameOver; i++ {
		g.Step(core.NewInputFrame())
	}

	st := g.State()
	if !st.GameOver {
		t.Fatal("easing past the floor should end the game")
	}
	if st.Reason != tide.ReasonOverwhelmed.String() {
		t.Errorf("reason = %q, expected %q", st.Reason, tide.ReasonOverwhelmed.String())
	}
	if g.Snapshot().Held != tide.DirIdle {
		t.Error("controls should be released at game over")
	}

	g.Step(frame(core.ActionSend))
	if g.State().Ticks != st.Ticks {
		t.Error("steps after game over should change nothing")
	}

	g.Reset(testConfig(1))
	if st := g.State(); st.GameOver || st.Score != 0 || st.Ticks != 0 {
		t.Errorf("Reset should start a fresh round, got %+v", st)
	}
}

func TestHighScore(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.SetHighScore(12)
	if g.HighScore() != 12 {
		t.Errorf("HighScore() = %d, expected 12", g.HighScore())
	}
	g.snap.RoundedScore = 20
	if g.HighScore() != 20 {
		t.Errorf("a better round should show as best, got %d", g.HighScore())
	}
}

func TestButtonAt(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))

	l := layoutFor(80, 24)
	ex, ey := l.ease.X+l.ease.W/2, l.ease.Y+1
	sx, sy := l.send.X+l.send.W/2, l.send.Y+1

	tests := []struct {
		name string
		x, y int
		want core.Action
	}{
		{"ease", ex, ey, core.ActionEase},
		{"send", sx, sy, core.ActionSend},
		{"corner", 0, 0, core.ActionNone},
		{"between", 40, ey, core.ActionNone},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := g.ButtonAt(tc.x, tc.y); got != tc.want {
				t.Errorf("ButtonAt(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))
	g.Step(core.NewInputFrame())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"Tides of Time", "Harmony:", "BALANCED", "LOW", "HIGH", "SEND WAVE", "EASE TIDE"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestRenderGameOverBanner(t *testing.T) {
	p := stillParams()
	p.ForceLimit = 0.6

	g := New()
	g.Reset(testConfig(1))
	g.sim = tide.New(p, 1)
	g.Step(frame(core.ActionEase, core.ActionHold))
	for i := 0; i < 200 && !g.State().GameOver; i++ {
		g.Step(core.NewInputFrame())
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	for _, want := range []string{"GAME OVER", tide.ReasonOverwhelmed.Message(), "Press R to retry"} {
		if !strings.Contains(out, want) {
			t.Errorf("game over banner missing %q", want)
		}
	}
}

func TestRenderSmallScreen(t *testing.T) {
	g := New()
	g.Reset(testConfig(1))

	screen := core.NewScreen(30, 10)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Harmony") {
		t.Error("small screen should still show harmony")
	}
	if g.ButtonAt(5, 5) != core.ActionNone {
		t.Error("no buttons in the small layout")
	}
}
