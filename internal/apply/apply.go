// Package apply materializes an authorized diff onto the working tree
// through a cascading strategy ladder: whole-patch native apply, per-section
// native apply, zero-context rewrite, and finally an external fuzzy patch
// fallback. Each tier records how much tolerance was required.
package apply

import (
	"fmt"
	"strings"

	"github.com/sokinpui/mend/internal/diff"
	"github.com/sokinpui/mend/internal/run"
	"github.com/sokinpui/mend/internal/snapshot"
	"github.com/sokinpui/mend/model"
)

// Engine applies patches to one working-tree checkout. Exactly one engine
// may run against a checkout at a time; the caller enforces the
// single-writer discipline.
type Engine struct {
	dir string
}

// New creates an engine rooted at dir.
func New(dir string) *Engine {
	return &Engine{dir: dir}
}

// Outcome reports what the ladder materialized. ChangedPaths follows the
// order file sections were declared in the diff; Diagnostics carries the
// accumulated attempt transcript for every path left unchanged, and Stats
// a line-count summary for every path that changed.
type Outcome struct {
	ChangedPaths []string
	Provenance   map[string]model.Tier
	Diagnostics  map[string]string
	Stats        map[string]string
}

func newOutcome() *Outcome {
	return &Outcome{
		Provenance:  make(map[string]model.Tier),
		Diagnostics: make(map[string]string),
		Stats:       make(map[string]string),
	}
}

func (o *Outcome) record(tier model.Tier, changed []string, snap *snapshot.Snapshot) {
	for _, path := range changed {
		o.ChangedPaths = append(o.ChangedPaths, path)
		o.Provenance[path] = tier
		o.Stats[path] = snap.Stats(path)
	}
}

// Apply runs the ladder over a diff already authorized by the scope guard.
// Sections succeed or fail independently; a section exhausting every tier
// is reported unchanged with its diagnostics and never blocks the others.
func (e *Engine) Apply(patch *diff.Patch) *Outcome {
	out := newOutcome()

	// S1: the entire diff, atomically.
	var wholeDiag strings.Builder
	changed, snap := e.runMatrix(patch.Render(), patch.Targets(), fullMatrix(patch), &wholeDiag)
	if len(changed) > 0 {
		out.record(model.TierWhole, changed, snap)
		// A whole-patch win that left some declared target untouched is
		// recorded rather than retried: the tree already moved.
		for _, target := range patch.Targets() {
			if _, ok := out.Provenance[target]; !ok {
				out.Diagnostics[target] = wholeDiag.String() + "whole-patch apply moved the tree but produced no change for this path\n"
			}
		}
		return out
	}

	// S2-S4: independent single-file sections. The whole-patch transcript
	// is summarized rather than replayed into every section's diagnostics.
	inherited := fmt.Sprintf("whole-patch apply exhausted %d combinations\n", len(fullMatrix(patch)))
	for _, section := range patch.Sections() {
		e.applySection(section, inherited, out)
	}
	return out
}

func (e *Engine) applySection(section *diff.Patch, inherited string, out *Outcome) {
	target := section.Files[0].Target()
	var diag strings.Builder
	diag.WriteString(inherited)

	// S2: the section through the full matrix on its own.
	changed, snap := e.runMatrix(section.Render(), section.Targets(), fullMatrix(section), &diag)
	if len(changed) > 0 {
		out.record(model.TierSection, changed, snap)
		return
	}

	// S3: context-free rewrite with widened counts.
	zc := section.ZeroContext()
	if len(zc.Files[0].Hunks) > 0 {
		changed, snap = e.runMatrix(zc.Render(), section.Targets(), zeroContextCombos(section), &diag)
		if len(changed) > 0 {
			out.record(model.TierZeroContext, changed, snap)
			return
		}
	}

	// S4: the POSIX patch utility, rejects to a sidecar for inspection.
	changed, snap = e.fuzzyPatch(section, &diag)
	if len(changed) > 0 {
		out.record(model.TierFuzzyPatch, changed, snap)
		return
	}

	out.Diagnostics[target] = diag.String()
}

// runMatrix tries each combo in order and returns the confirmed changed
// paths of the first attempt that moved the tree. Exit status alone is
// never trusted: a zero exit with no content change keeps the ladder
// going, and a non-zero exit that did move the tree (possible with
// --reject) is terminal so later attempts never stack onto a dirty tree.
func (e *Engine) runMatrix(text string, targets []string, combos []combo, diag *strings.Builder) ([]string, *snapshot.Snapshot) {
	snap := snapshot.Take(e.dir, targets)
	for _, c := range combos {
		cmd := run.Cmd{Dir: e.dir, Name: "git", Args: c.args(), Stdin: text}
		res := cmd.Run()
		changed := snap.Changed()
		switch {
		case res.OK() && len(changed) > 0:
			fmt.Fprintf(diag, "git %s: applied\n", c)
			return changed, snap
		case res.OK():
			fmt.Fprintf(diag, "git %s: exit 0 but tree unchanged\n", c)
		case len(changed) > 0:
			fmt.Fprintf(diag, "git %s: exit %d with partial application: %s\n", c, res.Code, firstLine(res.Stderr))
			return changed, snap
		default:
			fmt.Fprintf(diag, "git %s: %s\n", c, firstLine(res.Stderr))
		}
	}
	return nil, snap
}

func (e *Engine) fuzzyPatch(section *diff.Patch, diag *strings.Builder) ([]string, *snapshot.Snapshot) {
	target := section.Files[0].Target()
	rejectPath := target + ".rej"
	snap := snapshot.Take(e.dir, section.Targets())

	for _, strip := range stripOrder(section) {
		cmd := run.Cmd{
			Dir:   e.dir,
			Name:  "patch",
			Args:  []string{fmt.Sprintf("-p%d", strip), "-N", "--no-backup-if-mismatch", "-r", rejectPath},
			Stdin: section.Render(),
		}
		res := cmd.Run()
		changed := snap.Changed()
		switch {
		case res.OK() && len(changed) > 0:
			fmt.Fprintf(diag, "%s: applied\n", cmd)
			return changed, snap
		case res.OK():
			fmt.Fprintf(diag, "%s: exit 0 but tree unchanged\n", cmd)
		case len(changed) > 0:
			// Partial placement is by design here: unplaced hunks sit in
			// the sidecar for operator inspection.
			fmt.Fprintf(diag, "%s: exit %d, unplaced hunks in %s\n", cmd, res.Code, rejectPath)
			return changed, snap
		default:
			fmt.Fprintf(diag, "%s: %s\n", cmd, firstLine(res.Stderr+res.Stdout))
		}
	}
	return nil, snap
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "no tool output"
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
