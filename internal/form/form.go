// Package form collects the five batch inputs in an interactive terminal form.
package form

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Values are the inputs a batch needs from a person.
type Values struct {
	Spreadsheet string
	Template    string
	OutputDir   string
	StartRow    string
	EndRow      string
}

type field struct {
	label       string
	placeholder string
	required    bool
}

var fields = []field{
	{label: "Excel file with data", placeholder: "path/to/cases.xlsx", required: true},
	{label: "PowerPoint template", placeholder: "path/to/template.pptx", required: true},
	{label: "Output folder", placeholder: "path/to/output", required: true},
	{label: "Starting row (Excel)", placeholder: "1", required: true},
	{label: "Ending row (Excel)", placeholder: "blank for last row"},
}

type model struct {
	values    []string
	focus     int
	submitted bool
	cancelled bool
	errMsg    string
	width     int

	titleStyle lipgloss.Style
	labelStyle lipgloss.Style
	focusStyle lipgloss.Style
	inputStyle lipgloss.Style
	placeStyle lipgloss.Style
	errorStyle lipgloss.Style
	helpStyle  lipgloss.Style
}

func initialModel(v Values) model {
	return model{
		values: []string{v.Spreadsheet, v.Template, v.OutputDir, v.StartRow, v.EndRow},

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		focusStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")),
		inputStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		placeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit

	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % len(fields)

	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus - 1 + len(fields)) % len(fields)

	case tea.KeyEnter:
		if m.focus < len(fields)-1 {
			m.focus++
			return m, nil
		}
		if missing := m.firstMissing(); missing >= 0 {
			m.errMsg = fmt.Sprintf("%s is required", fields[missing].label)
			m.focus = missing
			return m, nil
		}
		m.submitted = true
		return m, tea.Quit

	case tea.KeyBackspace:
		v := []rune(m.values[m.focus])
		if len(v) > 0 {
			m.values[m.focus] = string(v[:len(v)-1])
		}

	case tea.KeyCtrlU:
		m.values[m.focus] = ""

	case tea.KeyRunes, tea.KeySpace:
		m.values[m.focus] += string(msg.Runes)
		m.errMsg = ""
	}
	return m, nil
}

func (m model) firstMissing() int {
	for i, f := range fields {
		if f.required && strings.TrimSpace(m.values[i]) == "" {
			return i
		}
	}
	return -1
}

func (m model) result() Values {
	return Values{
		Spreadsheet: strings.TrimSpace(m.values[0]),
		Template:    strings.TrimSpace(m.values[1]),
		OutputDir:   strings.TrimSpace(m.values[2]),
		StartRow:    strings.TrimSpace(m.values[3]),
		EndRow:      strings.TrimSpace(m.values[4]),
	}
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Excel to PPT Generator"))
	b.WriteString("\n\n")

	inputWidth := 60
	if m.width > 10 && m.width-6 < inputWidth {
		inputWidth = m.width - 6
	}

	for i, f := range fields {
		label := m.labelStyle.Render("  " + f.label)
		if i == m.focus {
			label = m.focusStyle.Render("> " + f.label)
		}
		b.WriteString(label)
		b.WriteString("\n")

		value := m.values[i]
		var box string
		if value == "" {
			box = m.placeStyle.Width(inputWidth).Render(f.placeholder)
		} else {
			if i == m.focus {
				value += "_"
			}
			box = m.inputStyle.Width(inputWidth).Render(value)
		}
		b.WriteString("  ")
		b.WriteString(box)
		b.WriteString("\n\n")
	}

	if m.errMsg != "" {
		b.WriteString(m.errorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	help := "tab/↑↓: move | enter: next / generate | ctrl+u: clear | esc: quit"
	b.WriteString(m.helpStyle.Render(help))

	return b.String()
}

// Run shows the form prefilled with initial. ok is false when the person
// cancelled.
func Run(initial Values) (values Values, ok bool, err error) {
	p := tea.NewProgram(initialModel(initial), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return Values{}, false, fmt.Errorf("error running form: %w", err)
	}

	final := finalModel.(model)
	if !final.submitted {
		return Values{}, false, nil
	}
	return final.result(), true, nil
}
