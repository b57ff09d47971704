package run

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"
)

// Cmd describes one external tool invocation as a typed argument vector.
// Commands are never built by string concatenation.
type Cmd struct {
	Dir   string
	Name  string
	Args  []string
	Stdin string
}

// Result captures everything a caller needs to judge an invocation.
type Result struct {
	Code   int
	Stdout string
	Stderr string
}

// OK reports whether the tool exited with status zero.
func (r Result) OK() bool {
	return r.Code == 0
}

// Run executes the command and captures its outcome. A tool that could not
// be started at all (missing binary, bad directory) is reported as code -1
// with the launch error in Stderr; callers treat it like any failed attempt.
func (c Cmd) Run() Result {
	cmd := exec.Command(c.Name, c.Args...)
	cmd.Dir = c.Dir
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.Code = exitErr.ExitCode()
		} else {
			result.Code = -1
			if result.Stderr != "" {
				result.Stderr += "\n"
			}
			result.Stderr += err.Error()
		}
	}
	return result
}

// String renders the invocation for diagnostics, e.g. "git apply -p1 -3".
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}
