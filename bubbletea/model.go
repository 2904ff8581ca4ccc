// Package bubbletea provides an in-process pager for rendered diffs using the
// Bubble Tea framework.
package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LinesMsg carries complete rendered lines, without their line terminators.
type LinesMsg []string

// DoneMsg reports that rendering has finished.
type DoneMsg struct {
	Err error
}

// Model is the Bubble Tea model of the pager. Lines are appended as they
// arrive; the view can be scrolled while rendering is still in progress.
type Model struct {
	viewport viewport.Model
	keymap   KeyMap
	renderer *lipgloss.Renderer
	ready    bool
	width    int

	content string
	lines   int
	done    bool
	err     error
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithRenderer sets the lipgloss renderer used for the status bar.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(km KeyMap) ModelOption {
	return func(m *Model) {
		m.keymap = km
	}
}

// NewModel creates an empty Model.
func NewModel(opts ...ModelOption) Model {
	m := Model{keymap: DefaultKeyMap()}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LinesMsg:
		m.appendLines(msg)
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.GotoTop):
			m.viewport.GotoTop()
			return m, nil
		case key.Matches(msg, m.keymap.GotoBottom):
			m.viewport.GotoBottom()
			return m, nil
		case key.Matches(msg, m.keymap.PageUp):
			m.viewport.PageUp()
			return m, nil
		case key.Matches(msg, m.keymap.PageDown):
			m.viewport.PageDown()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageUp):
			m.viewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keymap.HalfPageDown):
			m.viewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keymap.Up):
			m.viewport.ScrollUp(1)
			return m, nil
		case key.Matches(msg, m.keymap.Down):
			m.viewport.ScrollDown(1)
			return m, nil
		}
	case tea.WindowSizeMsg:
		statusBarHeight := 1
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-statusBarHeight)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - statusBarHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) appendLines(lines []string) {
	if len(lines) == 0 {
		return
	}
	text := strings.Join(lines, "\n")
	if m.lines > 0 {
		text = "\n" + text
	}
	m.content += text
	m.lines += len(lines)
	if m.ready {
		m.viewport.SetContent(m.content)
	}
}

// Lines returns the number of lines received so far.
func (m Model) Lines() int {
	return m.lines
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.statusBarView()
}

func (m Model) newStyle() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// statusBarView renders the status bar with position info.
func (m Model) statusBarView() string {
	barStyle := m.newStyle().Reverse(true)

	state := ""
	switch {
	case m.err != nil:
		state = "error: " + m.err.Error()
	case !m.done:
		state = "reading…"
	}

	content := fmt.Sprintf(" %d lines │ %s", m.lines, m.scrollPosition())
	if state != "" {
		content += " │ " + state
	}
	content += " │ j/k:scroll  space/b:page  g/G:top/bottom  q:quit "

	if m.width > 0 {
		content = ansi.Truncate(content, m.width, "")
	}
	if pad := m.width - lipgloss.Width(content); pad > 0 {
		content += strings.Repeat(" ", pad)
	}
	return barStyle.Render(content)
}

// scrollPosition returns a string indicating the scroll position.
func (m Model) scrollPosition() string {
	if m.viewport.AtTop() {
		return "Top"
	}
	if m.viewport.AtBottom() {
		return "Bot"
	}
	percent := int(m.viewport.ScrollPercent() * 100)
	return fmt.Sprintf("%2d%%", percent)
}
