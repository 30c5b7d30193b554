package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/storage"
)

// fakeGame ends its round after endAt steps with a fixed score.
type fakeGame struct {
	resets int
	steps  int
	endAt  int
	score  int
	paused bool
	best   int
	last   core.InputFrame
}

func (g *fakeGame) ID() string    { return "fake" }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Reset(core.RuntimeConfig) {
	g.resets++
	g.steps = 0
	g.paused = false
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.last = core.NewInputFrame()
	for a, on := range in.Actions {
		if on {
			g.last.Set(a)
		}
	}
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if !g.paused && !g.over() {
		g.steps++
	}
	return core.StepResult{State: g.State()}
}

func (g *fakeGame) over() bool { return g.endAt > 0 && g.steps >= g.endAt }

func (g *fakeGame) Render(dst *core.Screen) {
	dst.Clear()
	dst.DrawText(0, 0, "fake")
}

func (g *fakeGame) State() core.GameState {
	st := core.GameState{Paused: g.paused, Ticks: g.steps}
	if g.over() {
		st.GameOver = true
		st.Score = g.score
		st.Reason = "balance lost"
	}
	return st
}

func (g *fakeGame) ButtonAt(x, y int) core.Action {
	if y == 1 && x >= 0 && x < 5 {
		return core.ActionSend
	}
	return core.ActionNone
}

func (g *fakeGame) SetHighScore(score int) { g.best = score }

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	mm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm
}

func tick(t *testing.T, m Model) Model {
	t.Helper()
	return update(t, m, TickMsg(time.Now()))
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestModelKeysReachGame(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, nil, testRuntime())
	m.Init()

	m = update(t, m, runeKey("d"))
	m = tick(t, m)
	if !g.last.Has(core.ActionSend) {
		t.Error("d should send a wave")
	}

	// Input is consumed by one tick
	m = tick(t, m)
	if g.last.Has(core.ActionSend) {
		t.Error("input frame should be cleared after a tick")
	}
}

func TestModelMouseHoldAndRelease(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, nil, testRuntime())
	m.Init()

	m = update(t, m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = tick(t, m)
	if !g.last.Has(core.ActionSend) || !g.last.Has(core.ActionHold) {
		t.Errorf("press on button should hold send, got %v", g.last.Actions)
	}

	m = update(t, m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionRelease})
	m = tick(t, m)
	if !g.last.Has(core.ActionRelease) {
		t.Error("pointer release should release the controls")
	}

	// Press then drag off the button
	m = update(t, m, tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = update(t, m, tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = tick(t, m)
	if !g.last.Has(core.ActionRelease) {
		t.Error("dragging off the button should release")
	}

	// Press outside any button does nothing
	m = update(t, m, tea.MouseMsg{X: 40, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	tick(t, m)
	if g.last.Has(core.ActionSend) || g.last.Has(core.ActionHold) {
		t.Error("press outside buttons should be ignored")
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{endAt: 3, score: 7}
	m := NewModel(g, store, testRuntime(), WithPlayer("ana"))
	m.Init()

	for i := 0; i < 10; i++ {
		m = tick(t, m)
	}
	if !m.State().GameOver {
		t.Fatal("expected game over")
	}

	scores, err := store.TopScores("fake", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected one saved score, got %d", len(scores))
	}
	if s := scores[0]; s.Score != 7 || s.Player != "ana" || s.Reason != "balance lost" || s.Ticks != 3 {
		t.Errorf("saved entry = %+v", s)
	}

	best, err := store.HighScore("fake")
	if err != nil || best != 7 {
		t.Errorf("HighScore() = %d, %v; expected 7", best, err)
	}
}

func TestModelRestartLoadsHighScore(t *testing.T) {
	store := openStore(t)
	g := &fakeGame{endAt: 2, score: 5}
	m := NewModel(g, store, testRuntime())
	m.Init()
	if g.resets != 1 || g.best != 0 {
		t.Fatalf("Init should reset once with no best, got resets=%d best=%d", g.resets, g.best)
	}

	for i := 0; i < 3; i++ {
		m = tick(t, m)
	}

	// Restart is ignored while playing, honored after game over
	m = update(t, m, runeKey("r"))
	m = tick(t, m)
	if g.resets != 2 {
		t.Fatalf("restart after game over should reset, got %d resets", g.resets)
	}
	if g.best != 5 {
		t.Errorf("restart should load the new best, got %d", g.best)
	}
	if m.State().GameOver {
		t.Error("state should be fresh after restart")
	}
}

func TestModelBackOnlyWhenStopped(t *testing.T) {
	g := &fakeGame{}
	m := NewModel(g, nil, testRuntime())
	m.Init()
	m = tick(t, m)

	// Esc while playing pauses instead of leaving
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.BackToMenu() {
		t.Fatal("back should not leave a running game")
	}
	m = tick(t, m)
	if !m.State().Paused {
		t.Fatal("esc should pause")
	}

	m = update(t, m, runeKey("b"))
	if !m.BackToMenu() {
		t.Error("back should leave a paused game")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(&fakeGame{}, nil, testRuntime())
	m.Init()
	next, cmd := m.Update(runeKey("q"))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
	if next.(Model).View() != "" {
		t.Error("quitting model should render nothing")
	}
}

func TestNewModelFillsDefaults(t *testing.T) {
	m := NewModel(&fakeGame{}, nil, core.RuntimeConfig{})

	if m.config.TickRate != 60 {
		t.Errorf("TickRate = %d, expected default 60", m.config.TickRate)
	}
	if m.screen.Width() != 80 || m.screen.Height() != 23 {
		t.Errorf("screen = %dx%d, expected 80x23", m.screen.Width(), m.screen.Height())
	}
	if m.config.Seed == 0 {
		t.Error("a zero seed should be replaced by a time seed")
	}
}

func TestModelViewLeavesHelpRow(t *testing.T) {
	m := NewModel(&fakeGame{}, nil, testRuntime())
	m.Init()
	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})

	if m.screen.Height() != 19 || m.screen.Width() != 60 {
		t.Errorf("screen = %dx%d, expected 60x19", m.screen.Width(), m.screen.Height())
	}
	view := m.View()
	if !strings.Contains(view, "fake") || !strings.Contains(view, "quit") {
		t.Error("view should contain the playfield and the help line")
	}
}

func TestRenderScreen(t *testing.T) {
	s := core.NewScreen(10, 2)
	s.DrawTextColor(0, 0, "tide", core.ColorShallow)
	s.DrawTextColor(4, 0, "!!", core.ColorDanger)
	s.DrawText(0, 1, "calm")

	out := RenderScreen(s)
	for _, want := range []string{"tide", "!!", "calm"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderScreen missing %q", want)
		}
	}
	if got := strings.Count(out, "\n"); got != 1 {
		t.Errorf("expected 1 newline, got %d", got)
	}
}
