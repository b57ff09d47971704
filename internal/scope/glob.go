package scope

import (
	"regexp"
	"strings"
)

// Scope globs use single-pattern shell-style wildcard matching where `*`
// may cross path separators: the simplest, least surprising default for
// config authors. Whoever needs stricter segment boundaries writes
// narrower patterns. Each pattern is translated to an anchored regexp once
// and cached for the lifetime of the guard.
type patternCache struct {
	compiled map[string]*regexp.Regexp
}

func newPatternCache() *patternCache {
	return &patternCache{compiled: make(map[string]*regexp.Regexp)}
}

func (c *patternCache) matchAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if c.match(pattern, path) {
			return true
		}
	}
	return false
}

func (c *patternCache) match(pattern, path string) bool {
	re, ok := c.compiled[pattern]
	if !ok {
		re = compileGlob(pattern)
		c.compiled[pattern] = re
	}
	if re == nil {
		return false
	}
	return re.MatchString(path)
}

// compileGlob translates a glob into an anchored regexp. `*` matches any
// run of characters including `/`, `?` matches a single character, and
// `[...]` character classes pass through. A pattern that fails to compile
// matches nothing.
func compileGlob(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`^`)
	for i := 0; i < len(pattern); i++ {
		switch ch := pattern[i]; ch {
		case '*':
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			end := strings.IndexByte(pattern[i:], ']')
			if end < 0 {
				b.WriteString(regexp.QuoteMeta(string(ch)))
				continue
			}
			class := pattern[i : i+end+1]
			if strings.HasPrefix(class, "[!") {
				class = "[^" + class[2:]
			}
			b.WriteString(class)
			i += end
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString(`$`)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}
