// Package mend is the library facade over the change-application core:
// sanitize a free-text artifact into a diff, authorize it against the scope
// descriptor, apply it to the working tree through the strategy ladder.
package mend

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sokinpui/mend/cli"
	"github.com/sokinpui/mend/internal/pipeline"
	"github.com/sokinpui/mend/internal/sanitize"
	"github.com/sokinpui/mend/internal/scope"
	"github.com/sokinpui/mend/internal/source"
	"github.com/sokinpui/mend/model"
)

// ErrNoDiff is the soft no-op signal: the input contained no recoverable
// diff. Callers fall back to an alternative change-generation path.
var ErrNoDiff = sanitize.ErrNoDiff

const defaultScopeFile = ".mend.yml"

// App orchestrates one pipeline invocation against one checkout.
type App struct {
	cfg      *cli.Config
	pipeline *pipeline.Pipeline
	source   *source.Provider
	workDir  string
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

// New creates a new App instance. The scope descriptor is loaded fresh
// here, once per invocation; nothing else reads it later.
func New(cfg *cli.Config) (*App, error) {
	if cfg == nil {
		cfg = &cli.Config{}
	}
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("invalid working tree %q: %w", workDir, err)
	}

	scopeCfg, err := loadScope(cfg.ScopePath, absDir)
	if err != nil {
		return nil, err
	}

	return &App{
		cfg:      cfg,
		pipeline: pipeline.New(scopeCfg, absDir),
		source:   source.New(),
		workDir:  absDir,
	}, nil
}

func loadScope(path, workDir string) (*scope.Config, error) {
	if path != "" {
		return scope.Load(path)
	}
	fallback := filepath.Join(workDir, defaultScopeFile)
	if _, err := os.Stat(fallback); err != nil {
		// No descriptor means no authorization: an empty strict config
		// that rejects every target, never "allow all".
		return &scope.Config{Strict: true}, nil
	}
	return scope.Load(fallback)
}

// Run reads the artifact from stdin or the clipboard and processes it.
func (a *App) Run() (*model.Result, error) {
	content, err := a.source.GetContent()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoDiff
	}
	return a.RunContent(content)
}

// RunContent processes the given artifact text. With CheckOnly set the
// pipeline stops after validation and the tree is never touched.
func (a *App) RunContent(content string) (res *model.Result, err error) {
	// Centralized panic recovery to provide stack traces for unexpected errors.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	if a.cfg.CheckOnly {
		return a.pipeline.Check(content)
	}
	return a.pipeline.Run(content)
}

// Content reads the raw artifact from stdin or the clipboard.
func (a *App) Content() (string, error) {
	return a.source.GetContent()
}

// Sanitize exposes the sanitizer on its own, for operator inspection and
// for feeding external tools.
func (a *App) Sanitize(content string) (string, error) {
	return sanitize.Sanitize(content)
}

// FilterPaths runs candidate paths through the scope guard. Modification
// candidates may be globs, expanded against the working tree; creation
// candidates pass through literally because their files do not exist yet.
func (a *App) FilterPaths(createCandidates, modifyCandidates []string) (allowedCreate, allowedModify, rejected []string) {
	return a.pipeline.Guard().FilterPaths(createCandidates, a.expand(modifyCandidates))
}

func (a *App) expand(candidates []string) []string {
	var out []string
	for _, candidate := range candidates {
		if !strings.ContainsAny(candidate, "*?[") {
			out = append(out, candidate)
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(a.workDir), candidate)
		if err != nil || len(matches) == 0 {
			// Keep the raw pattern so the miss surfaces as a rejection.
			out = append(out, candidate)
			continue
		}
		out = append(out, matches...)
	}
	return out
}
