// Package companionview renders the wrist companion screen: the mirrored
// task list, the sync status line, and the one-step undo affordance.
package companionview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/tally/pkg/companion"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// viewMsg carries a fresh client view into the update loop.
type viewMsg companion.View

// Model is the bubbletea model for the companion screen.
type Model struct {
	client  *companion.Client
	views   <-chan companion.View
	cancel  func()
	view    companion.View
	cursor  int
	expand  bool
	spin    spinner.Model
	width   int
	height  int
	quiting bool
}

// NewModel binds the view to a client. The client must be registered on its
// channel before the program runs.
func NewModel(client *companion.Client) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	views, cancel := client.Subscribe()
	return &Model{
		client: client,
		views:  views,
		cancel: cancel,
		view:   client.View(),
		spin:   sp,
	}
}

func (m *Model) Init() tea.Cmd {
	m.client.Refresh()
	return tea.Batch(m.spin.Tick, m.waitForView())
}

func (m *Model) waitForView() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.views
		if !ok {
			return nil
		}
		return viewMsg(v)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case viewMsg:
		m.view = companion.View(msg)
		if m.cursor >= len(m.view.Tasks) {
			m.cursor = len(m.view.Tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, m.waitForView()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quiting = true
			m.cancel()
			return m, tea.Quit
		case "j", "down":
			if m.cursor < len(m.view.Tasks)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "enter", " ":
			m.expand = !m.expand
		case "r":
			m.client.Refresh()
		case "l":
			if t, ok := m.selected(); ok {
				m.client.LogTask(t.ID)
			}
		case "u":
			if t, ok := m.selected(); ok && m.client.CanUndo(t.ID) {
				m.client.UndoLast()
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) selected() (t struct {
	ID   string
	Name string
}, ok bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Tasks) {
		return t, false
	}
	sel := m.view.Tasks[m.cursor]
	t.ID = sel.ID
	t.Name = sel.Name
	return t, true
}

func (m *Model) View() string {
	if m.quiting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("tally"))
	b.WriteString("\n\n")

	if len(m.view.Tasks) == 0 {
		b.WriteString(faintStyle.Render(" no tasks"))
		b.WriteString("\n")
	}

	for i, t := range m.view.Tasks {
		line := fmt.Sprintf("%s (%d)", t.Name, t.Count)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
			if m.client.CanUndo(t.ID) {
				line += faintStyle.Render("  [u]ndo last")
			}
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
		if i == m.cursor && m.expand {
			for _, ev := range companion.RecentEvents(t, companion.DisplayEventCap) {
				b.WriteString(faintStyle.Render("    " + time.UnixMilli(ev).Local().Format("Jan 2 15:04")))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(faintStyle.Render("r refresh · l log · u undo · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) statusLine() string {
	if m.view.Loading {
		return m.spin.View() + " " + m.view.Status.Label()
	}
	label := m.view.Status.Label()
	switch m.view.Status {
	case companion.StatusSynced:
		if !m.view.LastSynced.IsZero() {
			label = fmt.Sprintf("synced %s", m.view.LastSynced.Local().Format("15:04:05"))
		}
		return faintStyle.Render(label)
	case companion.StatusNotConnected, companion.StatusNoResponse, companion.StatusSyncFailed:
		return errorStyle.Render(label)
	default:
		return faintStyle.Render(label)
	}
}
