package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what the user chose to do with a connection.
type Action int

const (
	ActionNone Action = iota
	ActionConnect
	ActionMount
	ActionUnmount
	ActionSendKey
)

func (a Action) String() string {
	switch a {
	case ActionConnect:
		return "Connect"
	case ActionMount:
		return "Mount"
	case ActionUnmount:
		return "Unmount"
	case ActionSendKey:
		return "Send key"
	}
	return "None"
}

// Choice is the picker's result. A zero Choice means the user quit.
type Choice struct {
	Name   string
	Action Action
}

// ChooseMsg ends the program with a choice.
type ChooseMsg struct {
	Choice Choice
}

// app is the root model. It owns the quit keys and records the choice.
type app struct {
	screen tea.Model
	choice Choice
}

func (a app) Init() tea.Cmd {
	return a.screen.Init()
}

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	case ChooseMsg:
		a.choice = msg.Choice
		return a, tea.Quit
	}

	updated, cmd := a.screen.Update(msg)
	a.screen = updated
	return a, cmd
}

func (a app) View() string {
	return a.screen.View()
}

// Run shows screen until it sends a ChooseMsg or the user quits.
func Run(screen tea.Model, opts ...tea.ProgramOption) (Choice, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(app{screen: screen}, opts...).Run()
	if err != nil {
		return Choice{}, err
	}
	if a, ok := final.(app); ok {
		return a.choice, nil
	}
	return Choice{}, nil
}
