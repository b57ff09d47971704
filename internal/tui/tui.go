package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/mend/mend"
	"github.com/sokinpui/mend/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type resultMsg struct{ result *model.Result }

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// --- Model ---
type state int

const (
	stateProcessing state = iota
	stateDone
	stateFailed
)

type Model struct {
	app     *mend.App
	spinner spinner.Model
	state   state
	result  *model.Result
	err     error
}

func New(app *mend.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{app: app, spinner: s, state: stateProcessing}
}

// Result exposes the final outcome so the caller can pick an exit code.
func (m Model) Result() (*model.Result, error) {
	return m.result, m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.process())
}

func (m Model) process() tea.Cmd {
	return func() tea.Msg {
		res, err := m.app.Run()
		if err != nil {
			return errorMsg{err}
		}
		return resultMsg{result: res}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		m.state = stateDone
		m.result = msg.result
		return m, tea.Quit
	case errorMsg:
		m.state = stateFailed
		m.err = msg.err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		return fmt.Sprintf("\n %s Applying changes...\n", m.spinner.View())
	case stateFailed:
		if errors.Is(m.err, mend.ErrNoDiff) {
			return warnStyle.Render("No patch found in input; nothing to do.") + "\n"
		}
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	default:
		return m.renderSummary()
	}
}

func (m Model) renderSummary() string {
	var b strings.Builder
	res := m.result

	b.WriteString(headerStyle.Render("--- Apply Summary ---"))
	b.WriteString("\n")

	if !res.OK {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Patch rejected: %d target(s) outside the allowed scope:", len(res.RejectedTargets))))
		b.WriteString("\n")
		for _, target := range res.RejectedTargets {
			b.WriteString("  - " + target + "\n")
		}
		return b.String()
	}

	if len(res.RejectedTargets) > 0 {
		b.WriteString(warnStyle.Render("Out-of-scope targets (non-strict mode, applied anyway):"))
		b.WriteString("\n")
		for _, target := range res.RejectedTargets {
			b.WriteString("  - " + target + "\n")
		}
	}

	if len(res.ChangedPaths) > 0 {
		b.WriteString(successStyle.Render(fmt.Sprintf("Changed %d file(s):", len(res.ChangedPaths))))
		b.WriteString("\n")
		for _, path := range res.ChangedPaths {
			b.WriteString(fmt.Sprintf("  - %s [%s] %s\n", path, res.Provenance[path], res.Stats[path]))
		}
	}

	unchanged := make([]string, 0, len(res.Diagnostics))
	for path := range res.Diagnostics {
		if _, ok := res.Provenance[path]; !ok {
			unchanged = append(unchanged, path)
		}
	}
	sort.Strings(unchanged)
	if len(unchanged) > 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Left unchanged %d file(s):", len(unchanged))))
		b.WriteString("\n")
		for _, path := range unchanged {
			b.WriteString("  - " + path + "\n")
			b.WriteString(faintStyle.Render("    "+lastDiagnosticLine(res.Diagnostics[path])) + "\n")
		}
	}

	if len(res.ChangedPaths) == 0 && len(unchanged) == 0 {
		b.WriteString(warnStyle.Render("No files were changed."))
		b.WriteString("\n")
	}
	return b.String()
}

func lastDiagnosticLine(text string) string {
	trimmed := strings.TrimRight(text, "\n")
	if trimmed == "" {
		return "no diagnostics recorded"
	}
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
