package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/caseforge/caseforge/types"
)

// SnapshotMsg delivers a pipeline snapshot to the live run view. The run
// command forwards each snapshot with Program.Send.
type SnapshotMsg types.Snapshot

// StreamClosedMsg signals that the snapshot stream ended without a terminal
// snapshot (producer crash). The view quits with whatever it has.
type StreamClosedMsg struct{}

// logTail is the number of transcript lines kept on screen.
const logTail = 10

// RunModel is the live progress view of an in-flight run.
type RunModel struct {
	meta    types.RunMeta
	spinner spinner.Model
	snap    types.Snapshot
	done    bool
	width   int
}

// NewRunModel creates the live run view.
func NewRunModel(meta types.RunMeta) RunModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipglossSpinner
	return RunModel{meta: meta, spinner: sp}
}

var lipglossSpinner = TitleStyle

// Init implements tea.Model.
func (m RunModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		// The run is not cancellable from the view; ctrl+c detaches the
		// display only.
		if msg.String() == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case SnapshotMsg:
		m.snap = types.Snapshot(msg)
		if m.snap.Terminal {
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case StreamClosedMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m RunModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("caseforge run"))
	b.WriteString("  ")
	b.WriteString(ValueStyle.Render(m.meta.RunID))
	b.WriteString("\n")
	b.WriteString(LogStyle.Render(m.meta.URL))
	b.WriteString("\n\n")

	counts := fmt.Sprintf("elements %d   cases %d   scripts %d",
		len(m.snap.Elements), len(m.snap.TestCases), len(m.snap.Scripts))
	b.WriteString(CountStyle.Render(counts))
	b.WriteString("\n\n")

	for _, line := range tail(m.snap.Log, logTail) {
		b.WriteString(LogStyle.Render(line))
		b.WriteString("\n")
	}

	if m.done {
		outcome := string(m.snap.Outcome)
		if outcome == "" {
			outcome = "interrupted"
		}
		b.WriteString("\n")
		b.WriteString(OutcomeStyle(string(m.snap.Outcome)).Render("── " + outcome))
		b.WriteString("\n")
	} else {
		b.WriteString("\n")
		b.WriteString(m.spinner.View())
		b.WriteString(LogStyle.Render(" working..."))
		b.WriteString("\n")
	}

	return b.String()
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}
