package mend

import (
	"fmt"

	"github.com/sokinpui/mend/cli"
	"github.com/sokinpui/mend/model"
)

// Apply is the one-call entry point for embedding the core: it sanitizes
// content, authorizes it against the descriptor at scopePath and applies it
// to the tree at workDir.
func Apply(content, scopePath, workDir string) (*model.Result, error) {
	app, err := New(&cli.Config{ScopePath: scopePath, WorkDir: workDir})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mend app: %w", err)
	}
	return app.RunContent(content)
}

// Check validates content against the descriptor without mutating workDir.
func Check(content, scopePath, workDir string) (*model.Result, error) {
	app, err := New(&cli.Config{ScopePath: scopePath, WorkDir: workDir, CheckOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mend app: %w", err)
	}
	return app.RunContent(content)
}
