package diff

import (
	"errors"
	"reflect"
	"testing"
)

const twoFileDiff = "diff --git a/src/main.go b/src/main.go\n" +
	"index 1111111..2222222 100644\n" +
	"--- a/src/main.go\n" +
	"+++ b/src/main.go\n" +
	"@@ -10,3 +10,4 @@ func main() {\n" +
	" \tfmt.Println(\"one\")\n" +
	"+\tfmt.Println(\"two\")\n" +
	" \tfmt.Println(\"three\")\n" +
	" }\n" +
	"diff --git a/docs/readme.md b/docs/readme.md\n" +
	"new file mode 100644\n" +
	"index 0000000..3333333\n" +
	"--- /dev/null\n" +
	"+++ b/docs/readme.md\n" +
	"@@ -0,0 +1,2 @@\n" +
	"+# readme\n" +
	"+hello\n"

func TestParseRenderRoundTrip(t *testing.T) {
	patch, err := Parse(twoFileDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := patch.Render(); got != twoFileDiff {
		t.Errorf("round trip not bit-exact.\nGot:\n%q\nWant:\n%q", got, twoFileDiff)
	}
}

func TestParseFileMetadata(t *testing.T) {
	patch, err := Parse(twoFileDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(patch.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(patch.Files))
	}

	first := patch.Files[0]
	if first.OldPath != "src/main.go" || first.NewPath != "src/main.go" {
		t.Errorf("unexpected paths: %q -> %q", first.OldPath, first.NewPath)
	}
	if first.IsNew || first.IsDelete || first.IsBinary {
		t.Errorf("unexpected flags on modify section: %+v", first)
	}
	if len(first.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(first.Hunks))
	}
	hunk := first.Hunks[0]
	if hunk.OldStart != 10 || hunk.OldLines != 3 || hunk.NewStart != 10 || hunk.NewLines != 4 {
		t.Errorf("unexpected hunk counts: %+v", hunk)
	}

	second := patch.Files[1]
	if !second.IsNew {
		t.Errorf("expected new-file section, got %+v", second)
	}
	if second.Target() != "docs/readme.md" {
		t.Errorf("unexpected target %q", second.Target())
	}
}

func TestTargetsOrderedAndUnique(t *testing.T) {
	patch, err := Parse(twoFileDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"src/main.go", "docs/readme.md"}
	if got := patch.Targets(); !reflect.DeepEqual(got, want) {
		t.Errorf("Targets() = %v, want %v", got, want)
	}
}

func TestDeletedFileTargetIsOldPath(t *testing.T) {
	input := "diff --git a/gone.txt b/gone.txt\n" +
		"deleted file mode 100644\n" +
		"--- a/gone.txt\n" +
		"+++ /dev/null\n" +
		"@@ -1,1 +0,0 @@\n" +
		"-bye\n"
	patch, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !patch.Files[0].IsDelete {
		t.Fatalf("expected delete flag")
	}
	if got := patch.Targets(); !reflect.DeepEqual(got, []string{"gone.txt"}) {
		t.Errorf("Targets() = %v", got)
	}
}

func TestSectionsSplitAtFileHeaders(t *testing.T) {
	patch, err := Parse(twoFileDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	sections := patch.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	joined := sections[0].Render() + sections[1].Render()
	if joined != twoFileDiff {
		t.Errorf("sections do not reassemble the patch.\nGot:\n%q", joined)
	}
}

func TestParseNoFiles(t *testing.T) {
	if _, err := Parse(""); !errors.Is(err, ErrNoFiles) {
		t.Errorf("expected ErrNoFiles, got %v", err)
	}
}

func TestUsesABPrefix(t *testing.T) {
	patch, err := Parse(twoFileDiff)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !patch.UsesABPrefix() {
		t.Errorf("expected a/ b/ convention to be detected")
	}

	bare := "diff --git x.txt x.txt\n--- x.txt\n+++ x.txt\n@@ -1 +1 @@\n-a\n+b\n"
	patch, err = Parse(bare)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if patch.UsesABPrefix() {
		t.Errorf("bare paths misdetected as a/ b/ convention")
	}
}

func TestParseToleratesInaccurateCounts(t *testing.T) {
	// The hunk header claims one context line; the model emitted two.
	input := "diff --git a/x.txt b/x.txt\n" +
		"--- a/x.txt\n" +
		"+++ b/x.txt\n" +
		"@@ -1,2 +1,3 @@\n" +
		" ctx one\n" +
		" ctx two\n" +
		"+added\n" +
		" ctx three\n"
	patch, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	hunk := patch.Files[0].Hunks[0]
	if len(hunk.Lines) != 4 {
		t.Errorf("expected all 4 content lines captured, got %d: %v", len(hunk.Lines), hunk.Lines)
	}
}
