package run

import (
	"os/exec"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesEverything(t *testing.T) {
	requireShell(t)
	res := Cmd{Name: "sh", Args: []string{"-c", "echo out; echo err >&2; exit 3"}}.Run()
	if res.Code != 3 {
		t.Errorf("Code = %d, want 3", res.Code)
	}
	if res.Stdout != "out\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if res.Stderr != "err\n" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
	if res.OK() {
		t.Errorf("OK() must be false for exit 3")
	}
}

func TestRunFeedsStdin(t *testing.T) {
	requireShell(t)
	res := Cmd{Name: "sh", Args: []string{"-c", "cat"}, Stdin: "hello\n"}.Run()
	if !res.OK() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
}

func TestRunMissingBinary(t *testing.T) {
	res := Cmd{Name: "definitely-not-a-real-tool-xyz"}.Run()
	if res.Code != -1 {
		t.Errorf("Code = %d, want -1 for unlaunchable command", res.Code)
	}
	if res.Stderr == "" {
		t.Errorf("expected launch error in Stderr")
	}
}

func TestCmdString(t *testing.T) {
	cmd := Cmd{Name: "git", Args: []string{"apply", "-p1", "-3"}}
	if got := cmd.String(); got != "git apply -p1 -3" {
		t.Errorf("String() = %q", got)
	}
}
