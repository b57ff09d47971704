// Package diff parses sanitized unified diffs into an ordered document of
// file sections and renders them back out byte-for-byte. It deliberately
// tolerates the count inaccuracies common in model-generated diffs: hunk
// content is consumed by declared counts where possible and by line shape
// where the counts lie.
package diff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoFiles is returned when the input contains no file-change header.
var ErrNoFiles = errors.New("diff contains no file sections")

var (
	fileHeaderRegex = regexp.MustCompile(`^diff --git "?a/(?P<old>.+?)"? "?b/(?P<new>.+?)"?$`)
	barePathRegex   = regexp.MustCompile(`^diff --git (?P<old>\S+) (?P<new>\S+)$`)
	hunkHeaderRegex = regexp.MustCompile(`^@@ -(?P<oldStart>\d+)(?:,(?P<oldLines>\d+))? \+(?P<newStart>\d+)(?:,(?P<newLines>\d+))? @@(?P<heading>.*)$`)
	oldMarkerRegex  = regexp.MustCompile(`^--- (?:"?a/)?(?P<path>.+?)"?\s*$`)
	newMarkerRegex  = regexp.MustCompile(`^\+\+\+ (?:"?b/)?(?P<path>.+?)"?\s*$`)
)

// Hunk is one contiguous block of context/add/remove lines.
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Heading  string
	// Header is the raw "@@ ... @@" line, kept so rendering an unmodified
	// hunk reproduces the input exactly.
	Header string
	// Lines are the raw content lines including their leading marker
	// character, plus any "\ No newline at end of file" marker.
	Lines []string
}

// FileSection is the change to a single file: its raw header block and the
// ordered hunks that follow.
type FileSection struct {
	OldPath  string
	NewPath  string
	IsNew    bool
	IsDelete bool
	IsBinary bool
	// Headers holds the raw lines from "diff --git" through the last
	// marker before hunk content ("+++ ...", or a binary marker).
	Headers []string
	Hunks   []*Hunk
}

// Target is the working-tree path this section mutates.
func (f *FileSection) Target() string {
	if f.IsDelete && f.OldPath != "" {
		return f.OldPath
	}
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Patch is an ordered sequence of file sections.
type Patch struct {
	Files []*FileSection
}

// Parse reads sanitized diff text into a Patch. Text before the first file
// header has already been removed by the sanitizer; anything that still
// fails to parse as a file section is an error, not a warning.
func Parse(text string) (*Patch, error) {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	patch := &Patch{}
	var current *FileSection
	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "diff --git "):
			current = parseFileHeader(line)
			patch.Files = append(patch.Files, current)
			i++
		case current == nil:
			return nil, fmt.Errorf("line %d precedes any file header: %q", i+1, line)
		case strings.HasPrefix(line, "@@ -"):
			hunk, consumed, err := parseHunk(lines[i:])
			if err != nil {
				return nil, fmt.Errorf("file %s: %w", current.Target(), err)
			}
			current.Hunks = append(current.Hunks, hunk)
			i += consumed
		default:
			applyExtendedHeader(current, line)
			current.Headers = append(current.Headers, line)
			i++
		}
	}

	if len(patch.Files) == 0 {
		return nil, ErrNoFiles
	}
	return patch, nil
}

func parseFileHeader(line string) *FileSection {
	section := &FileSection{Headers: []string{line}}
	if m := fileHeaderRegex.FindStringSubmatch(line); m != nil {
		section.OldPath = m[1]
		section.NewPath = m[2]
	} else if m := barePathRegex.FindStringSubmatch(line); m != nil {
		section.OldPath = m[1]
		section.NewPath = m[2]
	}
	return section
}

func applyExtendedHeader(section *FileSection, line string) {
	switch {
	case strings.HasPrefix(line, "new file mode"):
		section.IsNew = true
	case strings.HasPrefix(line, "deleted file mode"):
		section.IsDelete = true
	case strings.HasPrefix(line, "Binary files "), strings.HasPrefix(line, "GIT binary patch"):
		section.IsBinary = true
	case strings.HasPrefix(line, "rename from "):
		section.OldPath = strings.TrimPrefix(line, "rename from ")
	case strings.HasPrefix(line, "rename to "):
		section.NewPath = strings.TrimPrefix(line, "rename to ")
	case strings.HasPrefix(line, "--- "):
		if line == "--- /dev/null" {
			section.IsNew = true
		} else if m := oldMarkerRegex.FindStringSubmatch(line); m != nil {
			section.OldPath = m[1]
		}
	case strings.HasPrefix(line, "+++ "):
		if line == "+++ /dev/null" {
			section.IsDelete = true
		} else if m := newMarkerRegex.FindStringSubmatch(line); m != nil {
			section.NewPath = m[1]
		}
	}
}

// parseHunk consumes one hunk starting at lines[0] (the "@@" header) and
// returns it along with the number of lines consumed.
func parseHunk(lines []string) (*Hunk, int, error) {
	m := hunkHeaderRegex.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, 0, fmt.Errorf("malformed hunk header: %q", lines[0])
	}
	hunk := &Hunk{
		OldStart: atoiDefault(m[1], 0),
		OldLines: atoiDefault(m[2], 1),
		NewStart: atoiDefault(m[3], 0),
		NewLines: atoiDefault(m[4], 1),
		Heading:  m[5],
		Header:   lines[0],
	}

	// Content is consumed by shape, not by the declared counts: model
	// diffs routinely under- or over-state lengths, and stopping early
	// would misfile trailing context as the next section's headers.
	i := 1
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "@@ -"), strings.HasPrefix(line, "diff --git "):
			return hunk, i, nil
		case strings.HasPrefix(line, "\\"), strings.HasPrefix(line, "+"), strings.HasPrefix(line, "-"):
			hunk.Lines = append(hunk.Lines, line)
		case strings.HasPrefix(line, " "), line == "":
			// A bare empty line is an empty context line whose leading
			// space was stripped somewhere upstream.
			hunk.Lines = append(hunk.Lines, line)
		default:
			return hunk, i, nil
		}
		i++
	}
	return hunk, i, nil
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Render writes the patch back out. Sections and hunks that were not
// transformed reproduce their input bytes exactly.
func (p *Patch) Render() string {
	var b strings.Builder
	for _, file := range p.Files {
		for _, line := range file.Headers {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		for _, hunk := range file.Hunks {
			b.WriteString(hunk.Header)
			b.WriteByte('\n')
			for _, line := range hunk.Lines {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// Targets returns the destination path of every file section, in declared
// order, without duplicates.
func (p *Patch) Targets() []string {
	seen := make(map[string]struct{})
	var targets []string
	for _, file := range p.Files {
		target := file.Target()
		if target == "" {
			continue
		}
		if _, ok := seen[target]; ok {
			continue
		}
		seen[target] = struct{}{}
		targets = append(targets, target)
	}
	return targets
}

// Sections splits the patch at each file header into independent
// single-file patches, preserving order.
func (p *Patch) Sections() []*Patch {
	sections := make([]*Patch, 0, len(p.Files))
	for _, file := range p.Files {
		sections = append(sections, &Patch{Files: []*FileSection{file}})
	}
	return sections
}

// UsesABPrefix reports whether the patch follows the canonical a/ b/
// two-root path convention, judged from the first file header.
func (p *Patch) UsesABPrefix() bool {
	if len(p.Files) == 0 {
		return false
	}
	return fileHeaderRegex.MatchString(p.Files[0].Headers[0])
}
