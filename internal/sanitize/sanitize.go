// Package sanitize recovers a syntactically valid unified diff from the
// noisy free text a generative model produces: prose preambles, markdown
// fences, interleaved list artifacts, mixed line endings.
package sanitize

import (
	"errors"
	"strings"
)

// ErrNoDiff signals that the input contains no recoverable diff. It is a
// soft no-op for the caller, which falls back to an alternative
// change-generation path; it is never a fatal failure.
var ErrNoDiff = errors.New("no diff found in input")

// validPrefixes is the valid-line grammar for everything a unified diff may
// contain besides +/-/space content lines.
var validPrefixes = []string{
	"diff --git ",
	"index ",
	"old mode",
	"new mode",
	"new file mode",
	"deleted file mode",
	"similarity index",
	"dissimilarity index",
	"rename from ",
	"rename to ",
	"copy from ",
	"copy to ",
	"Binary files ",
	"GIT binary patch",
	"@@ -",
	"\\",
}

// Sanitize normalizes raw text into a valid diff. Steps, in order: strip a
// fence that wraps the entire input, discard prose before the first file
// header, normalize line endings, drop lines outside the valid-line
// grammar, and guarantee a trailing newline. Returns ErrNoDiff when no
// file header is present.
func Sanitize(raw string) (string, error) {
	content := stripSoleFence(raw)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "diff --git ") {
			start = i
			break
		}
	}
	if start == -1 {
		return "", ErrNoDiff
	}

	kept := make([]string, 0, len(lines)-start)
	for _, line := range lines[start:] {
		if validLine(line) {
			kept = append(kept, line)
		}
	}

	out := strings.Join(kept, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

func validLine(line string) bool {
	if line == "" {
		// Empty context line whose leading space was stripped upstream;
		// dropping it would desynchronize every following hunk.
		return true
	}
	switch line[0] {
	case '+', '-', ' ':
		return true
	}
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
