package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestRoot_NoSubcommandPrintsHelp(t *testing.T) {
	out, err := execute(t)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.Contains(out, "assemble") || !strings.Contains(out, "Usage:") {
		t.Fatalf("help output = %q", out)
	}
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	for _, field := range []string{"application: assemble-logs", "version: ", "commit: ", "build date: ", "profile: ", "features: "} {
		if !strings.Contains(out, field) {
			t.Errorf("version output missing %q:\n%s", field, out)
		}
	}
}

func TestAssemble_FlagsOverrideConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	base := filepath.Join(dir, "app.log")
	line := `{"tag":"svc","msg":"hello","level":"INFO","ts":"2021-09-02T22:15:00.000","pid":1}` + "\n"
	if err := os.WriteFile(base, []byte(line), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte("compact = false\ncolor = \"never\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := execute(t, "assemble", "--config", cfgPath, "-c", base, `.level == "INFO"`)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !strings.HasPrefix(out, "Sep 02 22:15:00.000 INFO [svc] hello pid: 1\n") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(out, "END OUTPUT - n_lines=1 evaluated=1\n") {
		t.Fatalf("summary missing: %q", out)
	}
}

func TestAssemble_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if _, err := execute(t, "assemble"); err == nil {
		t.Fatalf("assemble without a path succeeded")
	}
	if _, err := execute(t, "assemble", filepath.Join(t.TempDir(), "missing.log")); err == nil {
		t.Fatalf("assemble of a missing file succeeded")
	}
}
