// Package snapshot records the state of the working-tree paths a patch
// declares before any apply attempt runs. Intermediate tools may report
// success while writing nothing, so "changed" status is always decided by
// comparing content against the snapshot, never by trusting an exit status.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Snapshot holds pre-attempt content for an ordered set of paths. A path
// that did not exist is recorded as absent, so file creation registers as a
// change too.
type Snapshot struct {
	dir      string
	paths    []string
	contents map[string][]byte
	present  map[string]bool
}

// Take captures the current content of every path, relative to dir.
func Take(dir string, paths []string) *Snapshot {
	s := &Snapshot{
		dir:      dir,
		paths:    append([]string(nil), paths...),
		contents: make(map[string][]byte, len(paths)),
		present:  make(map[string]bool, len(paths)),
	}
	for _, path := range paths {
		data, err := os.ReadFile(filepath.Join(dir, path))
		if err != nil {
			continue
		}
		s.contents[path] = data
		s.present[path] = true
	}
	return s
}

// Changed re-reads every snapshotted path and returns those whose content
// digest no longer matches, preserving the order the paths were declared.
func (s *Snapshot) Changed() []string {
	var changed []string
	for _, path := range s.paths {
		data, err := os.ReadFile(filepath.Join(s.dir, path))
		exists := err == nil
		if exists != s.present[path] {
			changed = append(changed, path)
			continue
		}
		if exists && digest(data) != digest(s.contents[path]) {
			changed = append(changed, path)
		}
	}
	return changed
}

// Stats summarizes how a path moved relative to the snapshot as added and
// removed line counts, for provenance diagnostics.
func (s *Snapshot) Stats(path string) string {
	after, err := os.ReadFile(filepath.Join(s.dir, path))
	if err != nil {
		if s.present[path] {
			return "deleted"
		}
		return "unchanged"
	}
	before := s.contents[path]
	if !s.present[path] {
		return fmt.Sprintf("created, %d lines", countLines(string(after)))
	}

	dmp := diffmatchpatch.New()
	chars1, chars2, lineArray := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lineArray)

	added, removed := 0, 0
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		}
	}
	return fmt.Sprintf("+%d/-%d lines", added, removed)
}

func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
