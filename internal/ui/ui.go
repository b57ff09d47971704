package ui

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/mend/model"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

func Header(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(fmt.Sprintf(format, a...)))
}

func Success(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, successStyle.Render(fmt.Sprintf(format, a...)))
}

func Warning(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, warningStyle.Render(fmt.Sprintf(format, a...)))
}

func Error(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf(format, a...)))
}

func Faint(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, faintStyle.Render(fmt.Sprintf(format, a...)))
}

// PrintRunSummary reports one pipeline result grouped by outcome.
func PrintRunSummary(res *model.Result) {
	Header("\n--- Apply Summary ---")

	if !res.OK {
		Error("Patch rejected: %d target(s) outside the allowed scope:", len(res.RejectedTargets))
		for _, target := range res.RejectedTargets {
			fmt.Fprintf(os.Stderr, "  - %s\n", target)
		}
		return
	}

	if len(res.RejectedTargets) > 0 {
		Warning("Out-of-scope targets (non-strict mode, applied anyway):")
		for _, target := range res.RejectedTargets {
			fmt.Fprintf(os.Stderr, "  - %s\n", target)
		}
	}

	if len(res.ChangedPaths) > 0 {
		Success("Changed %d file(s):", len(res.ChangedPaths))
		for _, path := range res.ChangedPaths {
			fmt.Fprintf(os.Stderr, "  - %s [%s] %s\n", path, res.Provenance[path], res.Stats[path])
		}
	}

	unchanged := unchangedPaths(res)
	if len(unchanged) > 0 {
		Error("Left unchanged %d file(s):", len(unchanged))
		for _, path := range unchanged {
			fmt.Fprintf(os.Stderr, "  - %s\n", path)
			Faint("    %s", lastLine(res.Diagnostics[path]))
		}
	}

	if len(res.ChangedPaths) == 0 && len(unchanged) == 0 {
		Warning("No files were changed.")
	}
}

// PrintFilterSummary reports a path-filtering verdict.
func PrintFilterSummary(allowedCreate, allowedModify, rejected []string) {
	Header("\n--- Scope Filter ---")
	if len(allowedCreate) > 0 {
		Success("Allowed to create:")
		for _, path := range allowedCreate {
			fmt.Println("  " + path)
		}
	}
	if len(allowedModify) > 0 {
		Success("Allowed to modify:")
		for _, path := range allowedModify {
			fmt.Println("  " + path)
		}
	}
	if len(rejected) > 0 {
		Error("Rejected:")
		for _, path := range rejected {
			fmt.Println("  " + path)
		}
	}
	if len(allowedCreate) == 0 && len(allowedModify) == 0 && len(rejected) == 0 {
		Warning("No candidate paths given.")
	}
}

func unchangedPaths(res *model.Result) []string {
	var unchanged []string
	for path := range res.Diagnostics {
		if _, ok := res.Provenance[path]; !ok {
			unchanged = append(unchanged, path)
		}
	}
	sort.Strings(unchanged)
	return unchanged
}

func lastLine(text string) string {
	trimmed := strings.TrimRight(text, "\n")
	if trimmed == "" {
		return "no diagnostics recorded"
	}
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}
