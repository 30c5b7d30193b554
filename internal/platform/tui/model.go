// Package tui provides the Bubble Tea integration for the tides platform.
// It handles the terminal UI loop, input mapping, score persistence and the
// SSH front end.
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/registry"
	"github.com/vovakirdan/tides-of-time/internal/storage"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// ButtonTarget is implemented by games with on-screen buttons.
type ButtonTarget interface {
	ButtonAt(x, y int) core.Action
}

// HighScoreHolder is implemented by games that show the stored best score.
type HighScoreHolder interface {
	SetHighScore(score int)
}

// Model is the Bubble Tea model that runs one game. It is used directly for
// local play and embedded in SessionModel over SSH.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	seedFixed  bool
	player     string
	inputFrame core.InputFrame
	gameState  core.GameState
	keys       GameKeyMap
	help       help.Model

	pressed    core.Action // button held by the pointer, ActionNone if none
	standalone bool        // back quits the program instead of returning to a menu
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithPlayer records scores under the given player name.
func WithPlayer(name string) ModelOption {
	return func(m *Model) { m.player = name }
}

// WithLogger sets the logger for storage warnings.
func WithLogger(l *log.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) Model {
	def := core.DefaultConfig()
	if cfg.TickRate <= 0 {
		cfg.TickRate = def.TickRate
	}
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}

	seedFixed := cfg.Seed != 0
	if !seedFixed {
		cfg.Seed = time.Now().UnixNano()
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, playfieldHeight(cfg.ScreenH)),
		store:      store,
		logger:     log.New(io.Discard),
		config:     cfg,
		seedFixed:  seedFixed,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultGameKeyMap(),
		help:       help.New(),
	}
	m.help.Width = cfg.ScreenW
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// playfieldHeight leaves the bottom row for the help line.
func playfieldHeight(h int) int {
	return max(h-1, 0)
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.resetGame()
	return tickCmd(m.config.TickRate)
}

// resetGame starts a round and hands the game its stored high score.
func (m *Model) resetGame() {
	cfg := m.config
	cfg.ScreenH = playfieldHeight(cfg.ScreenH)
	m.game.Reset(cfg)
	m.gameState = m.game.State()
	m.scoreSaved = false
	m.pressed = core.ActionNone

	hs, ok := m.game.(HighScoreHolder)
	if !ok || m.store == nil {
		return
	}
	best, err := m.store.HighScore(m.game.ID())
	if err != nil {
		m.logger.Warn("cannot read high score", "game", m.game.ID(), "err", err)
		return
	}
	hs.SetHighScore(best)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			if m.standalone {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		// Esc while playing pauses
		m.inputFrame.Set(core.ActionPause)
	case core.ActionRestart:
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleMouse turns pointer press and release on the game's buttons into
// exact hold and release edges.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	target, ok := m.game.(ButtonTarget)
	if !ok {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if a := target.ButtonAt(msg.X, msg.Y); a != core.ActionNone {
			m.pressed = a
			m.inputFrame.Set(a)
			m.inputFrame.Set(core.ActionHold)
		}
	case tea.MouseActionRelease:
		if m.pressed != core.ActionNone {
			m.pressed = core.ActionNone
			m.inputFrame.Set(core.ActionRelease)
		}
	case tea.MouseActionMotion:
		// Dragging off the button counts as letting go
		if m.pressed != core.ActionNone && target.ButtonAt(msg.X, msg.Y) != m.pressed {
			m.pressed = core.ActionNone
			m.inputFrame.Set(core.ActionRelease)
		}
	}
	return m, nil
}

// handleResize processes window resize events. The game lays itself out on
// every render, so the round continues.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, playfieldHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		if !m.seedFixed {
			m.config.Seed = time.Now().UnixNano()
		}
		m.resetGame()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveScore records the finished round. Failures are logged and play goes on.
func (m *Model) saveScore() {
	if m.store == nil {
		return
	}
	id := m.game.ID()

	updated, err := m.store.RecordHighScore(id, m.gameState.Score)
	if err != nil {
		m.logger.Warn("cannot record high score", "game", id, "err", err)
	} else if updated {
		m.logger.Info("new high score", "game", id, "player", m.player, "score", m.gameState.Score)
	}

	if m.gameState.Score <= 0 {
		return
	}
	entry, err := m.store.SaveScore(storage.ScoreEntry{
		GameID: id,
		Player: m.player,
		Score:  m.gameState.Score,
		Reason: m.gameState.Reason,
		Ticks:  m.gameState.Ticks,
	})
	if err != nil {
		m.logger.Warn("cannot save score", "game", id, "err", err)
		return
	}
	m.logger.Debug("score saved", "run", entry.RunID, "score", entry.Score, "reason", entry.Reason)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	dir := filepath.Join(home, ".tides", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for the given game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...ModelOption) error {
	model := NewModel(game, store, cfg, opts...)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Press, release and drag on the tide buttons
	)

	_, err := p.Run()
	return err
}
