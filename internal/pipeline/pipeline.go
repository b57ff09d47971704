// Package pipeline sequences the change-application core: sanitize the raw
// artifact, validate the recovered diff against the scope, then hand it to
// the apply engine. Order is fixed; under strict mode a scope rejection
// aborts before any mutation.
package pipeline

import (
	"fmt"

	"github.com/sokinpui/mend/internal/apply"
	"github.com/sokinpui/mend/internal/diff"
	"github.com/sokinpui/mend/internal/sanitize"
	"github.com/sokinpui/mend/internal/scope"
	"github.com/sokinpui/mend/model"
)

// Pipeline owns one run against one working-tree checkout.
type Pipeline struct {
	guard  *scope.Guard
	engine *apply.Engine
}

// New wires a pipeline from a freshly loaded scope config.
func New(cfg *scope.Config, workDir string) *Pipeline {
	return &Pipeline{
		guard:  scope.NewGuard(cfg, workDir),
		engine: apply.New(workDir),
	}
}

// Guard exposes the scope guard for path-filtering entry points.
func (p *Pipeline) Guard() *scope.Guard {
	return p.guard
}

// Check sanitizes and validates without mutating anything. The returned
// result carries the verdict and rejected targets; sanitize.ErrNoDiff flows
// through untouched for the caller's soft no-op handling.
func (p *Pipeline) Check(raw string) (*model.Result, error) {
	patch, err := p.prepare(raw)
	if err != nil {
		return nil, err
	}
	ok, rejected := p.guard.ValidatePatch(patch)
	return &model.Result{OK: ok, RejectedTargets: rejected}, nil
}

// Run executes the full sequence: sanitize, validate, apply. A strict-mode
// rejection
// returns with zero mutations and the full offending target list.
func (p *Pipeline) Run(raw string) (*model.Result, error) {
	patch, err := p.prepare(raw)
	if err != nil {
		return nil, err
	}

	ok, rejected := p.guard.ValidatePatch(patch)
	if !ok {
		return &model.Result{OK: false, RejectedTargets: rejected}, nil
	}

	outcome := p.engine.Apply(patch)
	return &model.Result{
		OK:              true,
		RejectedTargets: rejected,
		ChangedPaths:    outcome.ChangedPaths,
		Provenance:      outcome.Provenance,
		Diagnostics:     outcome.Diagnostics,
		Stats:           outcome.Stats,
	}, nil
}

func (p *Pipeline) prepare(raw string) (*diff.Patch, error) {
	text, err := sanitize.Sanitize(raw)
	if err != nil {
		return nil, err
	}
	patch, err := diff.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("sanitized diff failed to parse: %w", err)
	}
	return patch, nil
}
