package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/caseforge/caseforge/cli/reader"
)

// inspectKeys are the key bindings of the inspect view.
type inspectKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var inspectKeys = inspectKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

// transcriptWindow is the number of transcript lines shown at once.
const transcriptWindow = 15

// InspectModel is a read-only view over a loaded run journal.
type InspectModel struct {
	run      *reader.Run
	offset   int
	quitting bool
}

// NewInspectModel creates the inspect view.
func NewInspectModel(run *reader.Run) InspectModel {
	return InspectModel{run: run}
}

// RunInspect shows the journal in a full-screen read-only view.
func RunInspect(run *reader.Run) error {
	p := tea.NewProgram(NewInspectModel(run), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m InspectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	transcript := m.run.Transcript()
	switch {
	case key.Matches(keyMsg, inspectKeys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, inspectKeys.Up):
		if m.offset > 0 {
			m.offset--
		}
	case key.Matches(keyMsg, inspectKeys.Down):
		if m.offset < len(transcript)-transcriptWindow {
			m.offset++
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m InspectModel) View() string {
	if m.quitting {
		return ""
	}

	summary := m.run.Summary()

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Run Journal"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Run ID", summary.RunID},
		{"URL", summary.URL},
		{"Requested cases", fmt.Sprintf("%d", summary.RequestedCases)},
		{"Snapshots", fmt.Sprintf("%d", summary.Snapshots)},
		{"Elements", fmt.Sprintf("%d", summary.Elements)},
		{"Test cases", fmt.Sprintf("%d", summary.TestCases)},
		{"Scripts", fmt.Sprintf("%d", summary.Scripts)},
	}
	for _, row := range rows {
		b.WriteString(LabelStyle.Render(row[0] + ":"))
		b.WriteString(" ")
		b.WriteString(ValueStyle.Render(row[1]))
		b.WriteString("\n")
	}

	b.WriteString(LabelStyle.Render("Outcome:"))
	b.WriteString(" ")
	if summary.Terminal {
		b.WriteString(OutcomeStyle(string(summary.Outcome)).Render(string(summary.Outcome)))
	} else {
		b.WriteString(WarningStyle.Render("(incomplete)"))
	}
	b.WriteString("\n")
	if summary.Truncated {
		b.WriteString(ErrorStyle.Render("journal truncated"))
		b.WriteString("\n")
	}

	transcript := m.run.Transcript()
	if len(transcript) > 0 {
		b.WriteString("\n")
		b.WriteString(TitleStyle.Render("Transcript"))
		b.WriteString("\n")
		end := m.offset + transcriptWindow
		if end > len(transcript) {
			end = len(transcript)
		}
		for _, line := range transcript[m.offset:end] {
			b.WriteString(LogStyle.Render(line))
			b.WriteString("\n")
		}
	}

	help := HelpStyle.Render(fmt.Sprintf("%s  %s  %s",
		inspectKeys.Up.Help().Key+" "+inspectKeys.Up.Help().Desc,
		inspectKeys.Down.Help().Key+" "+inspectKeys.Down.Help().Desc,
		inspectKeys.Quit.Help().Key+" "+inspectKeys.Quit.Help().Desc))
	b.WriteString(help)
	b.WriteString("\n")

	return BoxStyle.Render(b.String())
}
