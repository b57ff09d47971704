package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	ScopePath        string
	WorkDir          string
	CheckOnly        bool
	OutputSanitized  bool
	FilterMode       bool
	CreateCandidates []string
	ModifyCandidates []string
	NoAnimation      bool
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	pflag.StringVarP(&cfg.ScopePath, "scope", "c", "", "Path to the scope descriptor (default: .mend.yml in the working tree).")
	pflag.StringVarP(&cfg.WorkDir, "dir", "C", ".", "Working tree the changes apply to.")
	pflag.BoolVarP(&cfg.CheckOnly, "check", "n", false, "Sanitize and validate only; never mutate the tree.")
	pflag.BoolVarP(&cfg.OutputSanitized, "output-sanitized", "o", false, "Print the sanitized diff to stdout and exit.")
	pflag.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable the spinner and progress display.")

	// Path-filter mode instead of diff application.
	pflag.BoolVar(&cfg.FilterMode, "filter", false, "Filter candidate paths through the scope guard instead of applying a diff.")
	pflag.StringSliceVar(&cfg.CreateCandidates, "create", []string{}, "Creation candidates for --filter (paths).")
	pflag.StringSliceVar(&cfg.ModifyCandidates, "modify", []string{}, "Modification candidates for --filter (paths or globs).")

	pflag.Usage = func() {
		fmt.Println("Usage: mend [flags]")
		fmt.Println("\nParse model output from stdin (pipe) or clipboard, recover the embedded diff,")
		fmt.Println("authorize it against the scope descriptor and apply it to the working tree.")
		fmt.Println("\nExample: cat reply.md | mend -c scope.yml -C ./checkout")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	// Validate mutually exclusive modes
	if cfg.FilterMode && (cfg.CheckOnly || cfg.OutputSanitized) {
		return nil, fmt.Errorf("error: --filter cannot be combined with --check or --output-sanitized")
	}
	if cfg.CheckOnly && cfg.OutputSanitized {
		return nil, fmt.Errorf("error: --check and --output-sanitized are mutually exclusive")
	}
	if !cfg.FilterMode && (len(cfg.CreateCandidates) > 0 || len(cfg.ModifyCandidates) > 0) {
		return nil, fmt.Errorf("error: --create/--modify require --filter")
	}

	return cfg, nil
}
