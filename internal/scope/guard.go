package scope

import (
	"os"
	"path/filepath"

	"github.com/sokinpui/mend/internal/diff"
)

// Guard applies one loaded Config to candidate paths and patches. It is
// stateless apart from a cache of compiled patterns.
type Guard struct {
	cfg      *Config
	workDir  string
	patterns *patternCache
}

// NewGuard builds a guard for the given working tree.
func NewGuard(cfg *Config, workDir string) *Guard {
	return &Guard{cfg: cfg, workDir: workDir, patterns: newPatternCache()}
}

// FilterPaths matches creation candidates against the create allow-list and
// modification candidates against the modify allow-list. A candidate that
// is a directory is only accepted under modify when dir rewrites are
// allowed, otherwise it is rejected even if a glob would match it.
func (g *Guard) FilterPaths(createCandidates, modifyCandidates []string) (allowedCreate, allowedModify, rejected []string) {
	for _, path := range createCandidates {
		if g.patterns.matchAny(g.cfg.Create, path) {
			allowedCreate = append(allowedCreate, path)
		} else {
			rejected = append(rejected, path)
		}
	}
	for _, path := range modifyCandidates {
		if g.isDir(path) && !g.cfg.DirRewrite {
			rejected = append(rejected, path)
			continue
		}
		if g.patterns.matchAny(g.cfg.Modify, path) {
			allowedModify = append(allowedModify, path)
		} else {
			rejected = append(rejected, path)
		}
	}
	return allowedCreate, allowedModify, rejected
}

// ValidatePatch authorizes every destination path of the patch against
// create ∪ modify. Under strict mode one unauthorized target voids the
// whole patch: hunks are not safely separable post hoc without re-deriving
// line offsets, so the patch is rejected wholesale rather than partially
// stripped. Under non-strict mode unauthorized targets are reported but do
// not block application.
func (g *Guard) ValidatePatch(patch *diff.Patch) (bool, []string) {
	var rejected []string
	for _, target := range patch.Targets() {
		if g.patterns.matchAny(g.cfg.Create, target) || g.patterns.matchAny(g.cfg.Modify, target) {
			continue
		}
		rejected = append(rejected, target)
	}
	if g.cfg.Strict {
		return len(rejected) == 0, rejected
	}
	return true, rejected
}

func (g *Guard) isDir(path string) bool {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(g.workDir, path)
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}
