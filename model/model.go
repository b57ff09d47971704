package model

// Tier identifies the apply-ladder level that materialized a change.
type Tier string

const (
	// TierWhole means the entire patch applied atomically.
	TierWhole Tier = "whole"
	// TierSection means the file's section applied on its own.
	TierSection Tier = "section"
	// TierZeroContext means the section applied after its context lines
	// were stripped and the hunk counts recomputed.
	TierZeroContext Tier = "zero-context"
	// TierFuzzyPatch means the external patch utility placed the hunks.
	TierFuzzyPatch Tier = "fuzzy-patch"
)

// Result is the outcome of one pipeline invocation, returned to the
// orchestrator. ChangedPaths preserves the order in which file sections
// appeared in the sanitized diff; the orchestrator commits per path in
// that order and depends on it being stable.
type Result struct {
	OK              bool
	RejectedTargets []string
	ChangedPaths    []string
	Provenance      map[string]Tier
	Diagnostics     map[string]string
	// Stats is a line-count summary per changed path, for reporting.
	Stats map[string]string
}
