package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/park285/chess960-viewer/internal/msgcat"
	"github.com/park285/chess960-viewer/internal/shell"
	"github.com/park285/chess960-viewer/internal/surface"
)

type focus int

const (
	focusInput focus = iota
	focusLoad
	focusRandom
	focusCount
)

// animationDoneMsg repaints once the highlight of changed squares has expired.
type animationDoneMsg struct{}

type Model struct {
	ctx     context.Context
	sh      *shell.Shell
	catalog *msgcat.Catalog

	input  textinput.Model
	focus  focus
	status string

	width  int
	height int
}

// NewModel expects sh to be initialized already.
func NewModel(ctx context.Context, sh *shell.Shell, catalog *msgcat.Catalog, maxRunes int) Model {
	ti := textinput.New()
	ti.Placeholder = catalog.Text("panel.input_placeholder", nil)
	ti.Prompt = catalog.Text("panel.input_label", nil) + ": "
	ti.CharLimit = maxRunes
	ti.Width = max(maxRunes+1, 8)
	ti.Focus()

	if ctx == nil {
		ctx = context.Background()
	}
	return Model{ctx: ctx, sh: sh, catalog: catalog, input: ti, focus: focusInput}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.animationCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case animationDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+r":
			return m, m.random()
		case "tab":
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + focusCount - 1) % focusCount)
			return m, nil
		case "enter":
			if m.focus == focusRandom {
				return m, m.random()
			}
			return m, m.submit()
		}

		if m.focus != focusInput {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "r":
				return m, m.random()
			}
			return m, nil
		}

		if msg.String() == "esc" {
			m.setFocus(focusLoad)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.sh.UpdatePendingInput(m.input.Value())
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) submit() tea.Cmd {
	applied, err := m.sh.Submit(m.ctx)
	if err != nil {
		m.status = m.catalog.Text("status.mount_failed", map[string]any{"Err": err.Error()})
		return nil
	}
	if !applied {
		return nil
	}
	m.setLoaded()
	return m.animationCmd()
}

func (m *Model) random() tea.Cmd {
	if err := m.sh.RequestRandom(m.ctx); err != nil {
		m.status = m.catalog.Text("status.mount_failed", map[string]any{"Err": err.Error()})
		return nil
	}
	m.setLoaded()
	return m.animationCmd()
}

func (m *Model) setLoaded() {
	sel, _ := m.sh.Snapshot()
	m.status = m.catalog.Text("status.loaded", map[string]any{"ID": sel.ID})
}

func (m Model) animationCmd() tea.Cmd {
	ts, ok := m.sh.Surface().(*surface.TextSurface)
	if !ok || !ts.Animating() {
		return nil
	}
	d := ts.Config().Animation.Duration - time.Since(ts.MountedAt())
	return tea.Tick(d, func(time.Time) tea.Msg { return animationDoneMsg{} })
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Faint(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder())
	activeStyle = buttonStyle.Bold(true).BorderForeground(lipgloss.Color("#08D678"))
)

func (m Model) View() string {
	header := titleStyle.Render(m.catalog.Text("app.title", nil)) + "  " +
		subtleStyle.Render(m.catalog.Text("app.subtitle", nil))

	board := m.boardView()

	var panel strings.Builder
	if sel, ok := m.sh.Snapshot(); ok {
		panel.WriteString(m.catalog.Text("panel.current_id", map[string]any{"ID": sel.ID}))
		panel.WriteString("\n")
		panel.WriteString(subtleStyle.Render(m.catalog.Text("panel.back_rank", map[string]any{"BackRank": sel.Position.BackRank})))
		panel.WriteString("\n\n")
	}
	panel.WriteString(m.input.View())
	panel.WriteString("\n")
	panel.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.button(focusLoad, m.catalog.Text("panel.load", nil)),
		" ",
		m.button(focusRandom, m.catalog.Text("panel.random", nil)),
	))
	if m.status != "" {
		panel.WriteString("\n")
		panel.WriteString(m.status)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, boxStyle.Render(board), "  ", boxStyle.Render(panel.String()))
	return header + "\n" + body + "\n" + subtleStyle.Render(m.catalog.Text("help.keys", nil)) + "\n"
}

func (m Model) button(f focus, label string) string {
	if m.focus == f {
		return activeStyle.Render(label)
	}
	return buttonStyle.Render(label)
}

func (m Model) boardView() string {
	switch s := m.sh.Surface().(type) {
	case *surface.TextSurface:
		return strings.TrimRight(s.View(), "\n")
	case nil:
		return ""
	default:
		var b strings.Builder
		if err := s.Render(m.ctx, &b); err != nil {
			return err.Error()
		}
		return b.String()
	}
}
