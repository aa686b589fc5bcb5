package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PickerItem is one selectable entry of a Picker.
type PickerItem struct {
	Name        string
	Description string
}

// Picker is a menu choosing one item, used to pick a preset before a live
// session.
type Picker struct {
	title  string
	items  []PickerItem
	cursor int
	chosen string
}

func NewPicker(title string, items []PickerItem) Picker {
	return Picker{title: title, items: items}
}

func (m Picker) Init() tea.Cmd { return nil }

func (m Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.chosen = ""
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) > 0 {
			m.chosen = m.items[m.cursor].Name
		}
		return m, tea.Quit
	}
	return m, nil
}

// Chosen is the selected item name, empty when the menu was dismissed.
func (m Picker) Chosen() string { return m.chosen }

func (m Picker) View() string {
	var (
		head   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
		sub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
		cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
		active = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
		desc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
		idle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
		key    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	)

	var b strings.Builder
	b.WriteString("\n\n    " + head.Render("FLIGHTSIM") + "\n    " + sub.Render(m.title) + "\n    " + sub.Render(Separator(25)) + "\n\n")
	for i, it := range m.items {
		name := fmt.Sprintf("%-16s", it.Name)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), active.Render(name), desc.Render(it.Description)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", idle.Render(name), idle.Render(it.Description)))
		}
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" fly  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// Pick shows the menu and returns the chosen name, or "" if dismissed.
func Pick(title string, items []PickerItem) (string, error) {
	final, err := tea.NewProgram(NewPicker(title, items), tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}
	return final.(Picker).Chosen(), nil
}
