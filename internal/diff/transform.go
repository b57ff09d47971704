package diff

import (
	"fmt"
	"strings"
)

// ZeroContext rewrites every hunk to drop its leading and trailing context
// lines and recomputes the hunk counts from the surviving content. The
// resulting patch places hunks by line number alone, which loosens
// positional matching at the cost of exactness; it is meant to be applied
// with zero-context-tolerant flags.
func (p *Patch) ZeroContext() *Patch {
	out := &Patch{Files: make([]*FileSection, 0, len(p.Files))}
	for _, file := range p.Files {
		clone := &FileSection{
			OldPath:  file.OldPath,
			NewPath:  file.NewPath,
			IsNew:    file.IsNew,
			IsDelete: file.IsDelete,
			IsBinary: file.IsBinary,
			Headers:  append([]string(nil), file.Headers...),
		}
		for _, hunk := range file.Hunks {
			if zc := zeroContextHunk(hunk); zc != nil {
				clone.Hunks = append(clone.Hunks, zc)
			}
		}
		out.Files = append(out.Files, clone)
	}
	return out
}

func isContextLine(line string) bool {
	return line == "" || strings.HasPrefix(line, " ")
}

func zeroContextHunk(hunk *Hunk) *Hunk {
	lines := hunk.Lines

	lead := 0
	for lead < len(lines) && isContextLine(lines[lead]) {
		lead++
	}
	if lead == len(lines) {
		// Context-only hunk: nothing left to apply once stripped.
		return nil
	}
	lines = lines[lead:]

	// Do not strip past a trailing no-newline marker; it is attached to
	// the content line before it.
	trail := len(lines)
	for trail > 0 && isContextLine(lines[trail-1]) {
		trail--
	}
	lines = lines[:trail]

	adds, removes, context := 0, 0, 0
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "+"):
			adds++
		case strings.HasPrefix(line, "\\"):
		case isContextLine(line):
			context++
		default:
			removes++
		}
	}

	oldLines := context + removes
	newLines := context + adds
	oldStart := hunk.OldStart + lead
	newStart := hunk.NewStart + lead
	// Unified format addresses a zero-length range by the line before it.
	if oldLines == 0 && oldStart > 0 {
		oldStart--
	}
	if newLines == 0 && newStart > 0 {
		newStart--
	}

	return &Hunk{
		OldStart: oldStart,
		OldLines: oldLines,
		NewStart: newStart,
		NewLines: newLines,
		Heading:  hunk.Heading,
		Header:   formatHunkHeader(oldStart, oldLines, newStart, newLines, hunk.Heading),
		Lines:    append([]string(nil), lines...),
	}
}

func formatHunkHeader(oldStart, oldLines, newStart, newLines int, heading string) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@%s", oldStart, oldLines, newStart, newLines, heading)
}
