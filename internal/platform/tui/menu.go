package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/registry"
	"github.com/vovakirdan/tides-of-time/internal/storage"
)

// MenuItemKind tells what selecting an item does.
type MenuItemKind int

const (
	MenuItemPlay MenuItemKind = iota
	MenuItemScores
	MenuItemQuit
)

// MenuItem represents a selectable entry in the title menu.
type MenuItem struct {
	Kind   MenuItemKind
	GameID string // set for MenuItemPlay
	Label  string
	best   int
}

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	config         core.RuntimeConfig
	keys           MenuKeyMap
	help           help.Model
	quitting       bool
	selected       *MenuItem // Set when user picks a game
	openScoreboard bool
}

var (
	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("159")).
			Padding(0, 2).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("38"))
	menuTaglineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("180")).Italic(true)
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	menuSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuBestStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("38"))
)

// NewMenuModel creates a new menu model. Stored high scores are read once so
// the menu can show them beside each game.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games)+2)

	for _, g := range games {
		item := MenuItem{
			Kind:   MenuItemPlay,
			GameID: g.ID,
			Label:  "PLAY  " + g.Title,
		}
		if store != nil {
			if best, err := store.HighScore(g.ID); err == nil {
				item.best = best
			}
		}
		items = append(items, item)
	}
	items = append(items,
		MenuItem{Kind: MenuItemScores, Label: "HIGH SCORES"},
		MenuItem{Kind: MenuItemQuit, Label: "QUIT"},
	)

	h := help.New()
	h.Width = cfg.ScreenW

	return MenuModel{
		items:  items,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   DefaultMenuKeyMap(),
		help:   h,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit

	case MenuActionSelect:
		item := m.items[m.cursor]
		switch item.Kind {
		case MenuItemPlay:
			m.selected = &item
		case MenuItemScores:
			m.openScoreboard = true
		case MenuItemQuit:
			m.quitting = true
		}
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, menuTitleStyle.Render("T I D E   &   T I M E")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, menuTaglineStyle.Render("keep the tide in balance")))
	b.WriteString("\n\n")

	for i, item := range m.items {
		style := menuItemStyle
		cursor := "  "
		if i == m.cursor {
			style = menuSelectedStyle
			cursor = "> "
		}
		line := style.Render(cursor + item.Label)
		if item.Kind == MenuItemPlay && item.best > 0 {
			line += menuBestStyle.Render(fmt.Sprintf("  best %d", item.best))
		}
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, helpStyle.Render(m.help.View(m.keys))))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected play item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result summarizes how the menu was left.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{Config: m.Config()}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Selected() != nil:
		result.GameID = m.Selected().GameID
	default:
		result.Quit = true
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	p := tea.NewProgram(
		NewMenuModel(store, cfg),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
