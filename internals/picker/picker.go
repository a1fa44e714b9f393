// Package picker renders an interactive project chooser for terminals.
package picker

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smithers-cli/smithers/internals/schemas"
)

type item struct {
	project schemas.Project
}

func (i item) Title() string       { return i.project.Name }
func (i item) Description() string { return i.project.ID }
func (i item) FilterValue() string { return i.project.Name }

type pickerModel struct {
	list   list.Model
	choice *schemas.Project
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "enter":
			if selected, ok := m.list.SelectedItem().(item); ok {
				choice := selected.project
				m.choice = &choice
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	return m.list.View()
}

// Choose runs the picker and returns the selected project, or nil when the
// user cancelled.
func Choose(title string, projects []schemas.Project) (*schemas.Project, error) {
	items := make([]list.Item, 0, len(projects))
	for _, project := range projects {
		items = append(items, item{project: project})
	}

	l := list.New(items, list.NewDefaultDelegate(), 48, 16)
	l.Title = title
	l.SetShowStatusBar(false)

	program := tea.NewProgram(pickerModel{list: l})
	result, err := program.Run()
	if err != nil {
		return nil, err
	}
	final, ok := result.(pickerModel)
	if !ok {
		return nil, nil
	}
	return final.choice, nil
}
