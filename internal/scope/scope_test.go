package scope

import (
	"reflect"
	"testing"
)

func TestParseCurrentShape(t *testing.T) {
	data := []byte(`
scope:
  create:
    - "docs/*.md"
  modify:
    - "src/*.go"
  tests:
    - "src/*_test.go"
  strict_mode: false
  dir_rewrite_allowed: true
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Create, []string{"docs/*.md"}) {
		t.Errorf("Create = %v", cfg.Create)
	}
	if !reflect.DeepEqual(cfg.Modify, []string{"src/*.go"}) {
		t.Errorf("Modify = %v", cfg.Modify)
	}
	if !reflect.DeepEqual(cfg.Tests, []string{"src/*_test.go"}) {
		t.Errorf("Tests = %v", cfg.Tests)
	}
	if cfg.Strict {
		t.Errorf("strict_mode: false not honored")
	}
	if !cfg.DirRewrite {
		t.Errorf("dir_rewrite_allowed: true not honored")
	}
}

func TestParseLegacyShape(t *testing.T) {
	data := []byte(`
allowed_targets:
  modify:
    - "lib/*.py"
execution:
  strict_mode: true
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Modify, []string{"lib/*.py"}) {
		t.Errorf("Modify = %v", cfg.Modify)
	}
	if !cfg.Strict {
		t.Errorf("legacy strict_mode lost")
	}
	if cfg.DirRewrite {
		t.Errorf("dir_rewrite_allowed must default to false")
	}
}

func TestParseCurrentShapeWinsOverLegacy(t *testing.T) {
	data := []byte(`
scope:
  modify:
    - "new/*.go"
allowed_targets:
  modify:
    - "old/*.go"
  create:
    - "old/*.md"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Modify, []string{"new/*.go"}) {
		t.Errorf("current shape did not win: Modify = %v", cfg.Modify)
	}
	if len(cfg.Create) != 0 {
		t.Errorf("legacy create leaked through the current shape: %v", cfg.Create)
	}
}

func TestParseDefaultsAreRestrictive(t *testing.T) {
	cfg, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !cfg.Strict {
		t.Errorf("strict_mode must default to true")
	}
	if cfg.DirRewrite {
		t.Errorf("dir_rewrite_allowed must default to false")
	}
	if len(cfg.Create) != 0 || len(cfg.Modify) != 0 {
		t.Errorf("allow-lists must default to empty, got %v / %v", cfg.Create, cfg.Modify)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("scope: [not: a: mapping")); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestGlobStarCrossesSeparators(t *testing.T) {
	cache := newPatternCache()
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"src/*.txt", "src/a.txt", true},
		{"src/*.txt", "src/nested/deep.txt", true}, // `*` crosses `/` by design
		{"src/*.txt", "other/a.txt", false},
		{"*", "anything/at/all", true},
		{"src/?.go", "src/a.go", true},
		{"src/?.go", "src/ab.go", false},
		{"src/[ab].go", "src/a.go", true},
		{"src/[!ab].go", "src/c.go", true},
		{"src/[!ab].go", "src/a.go", false},
		{"exact.txt", "exact.txt", true},
		{"exact.txt", "prefix-exact.txt", false},
	}
	for _, tc := range cases {
		if got := cache.match(tc.pattern, tc.path); got != tc.want {
			t.Errorf("match(%q, %q) = %v, want %v", tc.pattern, tc.path, got, tc.want)
		}
	}
}
