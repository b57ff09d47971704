package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sokinpui/mend/cli"
	"github.com/sokinpui/mend/internal/tui"
	"github.com/sokinpui/mend/internal/ui"
	"github.com/sokinpui/mend/mend"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app, err := mend.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	switch {
	case cfg.FilterMode:
		allowedCreate, allowedModify, rejected := app.FilterPaths(cfg.CreateCandidates, cfg.ModifyCandidates)
		ui.PrintFilterSummary(allowedCreate, allowedModify, rejected)
		return
	case cfg.OutputSanitized:
		outputSanitized(app)
		return
	}

	// Modes that mutate (or validate) run plain unless a TUI is wanted.
	if cfg.NoAnimation || cfg.CheckOnly {
		runPlain(app)
		return
	}

	model := tui.New(app)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok {
		if res, err := m.Result(); err == nil && res != nil && !res.OK {
			os.Exit(1)
		}
	}
}

func outputSanitized(app *mend.App) {
	content, err := app.Content()
	if err != nil {
		ui.Error("Error: %v", err)
		os.Exit(1)
	}
	sanitized, err := app.Sanitize(content)
	if errors.Is(err, mend.ErrNoDiff) {
		ui.Warning("No patch found in input.")
		return
	}
	if err != nil {
		ui.Error("Error: %v", err)
		os.Exit(1)
	}
	fmt.Print(sanitized)
}

func runPlain(app *mend.App) {
	res, err := app.Run()
	if errors.Is(err, mend.ErrNoDiff) {
		ui.Warning("No patch found in input; nothing to do.")
		return
	}
	if err != nil {
		ui.Error("Error: %v", err)
		os.Exit(1)
	}
	ui.PrintRunSummary(res)
	if !res.OK {
		os.Exit(1)
	}
}
