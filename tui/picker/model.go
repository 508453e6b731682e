// Package picker is the connection picker screen: choose a saved connection,
// then an action to run against it.
package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dukerupert/remote/internal/store"
	"github.com/dukerupert/remote/tui"
)

type phase int

const (
	phaseSelectConnection phase = iota
	phaseSelectAction
)

var actions = []tui.Action{
	tui.ActionConnect,
	tui.ActionMount,
	tui.ActionUnmount,
	tui.ActionSendKey,
}

type item struct {
	entry store.Entry
}

func (i item) Title() string       { return i.entry.Name }
func (i item) Description() string { return i.entry.Login + "@" + i.entry.Address }
func (i item) FilterValue() string { return i.entry.Name + " " + i.entry.Address }

// Model is the BubbleTea model for the picker.
type Model struct {
	phase phase

	list         list.Model
	selected     store.Entry
	actionCursor int
}

// New creates a picker over entries. Passwords are never shown, so callers
// should pass entries listed with reveal off.
func New(entries []store.Entry) Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = item{entry: e}
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = "remote"
	l.Styles.Title = tui.TitleStyle
	l.SetShowStatusBar(false)

	return Model{phase: phaseSelectConnection, list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(ws.Width, ws.Height-1)
	}

	switch m.phase {
	case phaseSelectConnection:
		return m.updateSelectConnection(msg)
	case phaseSelectAction:
		return m.updateSelectAction(msg)
	}
	return m, nil
}

func (m Model) updateSelectConnection(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch key.String() {
		case "enter":
			it, ok := m.list.SelectedItem().(item)
			if !ok {
				return m, nil
			}
			m.selected = it.entry
			m.actionCursor = 0
			m.phase = phaseSelectAction
			return m, nil
		case "esc":
			if m.list.FilterState() == list.Unfiltered {
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSelectAction(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.actionCursor > 0 {
				m.actionCursor--
			}
		case "down", "j":
			if m.actionCursor < len(actions)-1 {
				m.actionCursor++
			}
		case "enter":
			choice := tui.Choice{Name: m.selected.Name, Action: actions[m.actionCursor]}
			return m, func() tea.Msg {
				return tui.ChooseMsg{Choice: choice}
			}
		case "esc":
			m.phase = phaseSelectConnection
			return m, nil
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.phase == phaseSelectConnection {
		return m.list.View()
	}

	var b strings.Builder
	b.WriteString(tui.TitleStyle.Render(m.selected.Name))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n", tui.LabelStyle.Render("Host:"), tui.ValueStyle.Render(m.selected.Login+"@"+m.selected.Address)))

	for i, a := range actions {
		line := "    " + a.String()
		if i == m.actionCursor {
			line = tui.CursorStyle.Render("  > " + a.String())
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(tui.HelpStyle.Render("j/k: navigate  enter: run  esc: back  q: quit"))
	return b.String()
}
