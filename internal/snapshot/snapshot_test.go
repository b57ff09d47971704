package snapshot

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestChangedDetectsEditCreateDelete(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "edited.txt", "before\n")
	write(t, dir, "deleted.txt", "going away\n")
	write(t, dir, "same.txt", "stable\n")

	snap := Take(dir, []string{"edited.txt", "created.txt", "deleted.txt", "same.txt"})

	write(t, dir, "edited.txt", "after\n")
	write(t, dir, "created.txt", "fresh\n")
	if err := os.Remove(filepath.Join(dir, "deleted.txt")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	want := []string{"edited.txt", "created.txt", "deleted.txt"}
	if got := snap.Changed(); !reflect.DeepEqual(got, want) {
		t.Errorf("Changed() = %v, want %v (declared order)", got, want)
	}
}

func TestChangedEmptyWhenNothingMoved(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", "content\n")
	snap := Take(dir, []string{"a.txt", "missing.txt"})
	if got := snap.Changed(); len(got) != 0 {
		t.Errorf("Changed() = %v, want none", got)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.txt", "one\ntwo\nthree\n")
	snap := Take(dir, []string{"a.txt", "new.txt"})

	write(t, dir, "a.txt", "one\n2\nthree\nfour\n")
	write(t, dir, "new.txt", "x\ny\n")

	if got := snap.Stats("a.txt"); got != "+2/-1 lines" {
		t.Errorf("Stats(a.txt) = %q", got)
	}
	if got := snap.Stats("new.txt"); !strings.HasPrefix(got, "created") {
		t.Errorf("Stats(new.txt) = %q", got)
	}
}
