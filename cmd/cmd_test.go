package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yml")))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestContentValidate(t *testing.T) {
	out, err := run(t, "content", "validate")
	if err != nil {
		t.Fatalf("content validate: %v", err)
	}
	if !strings.Contains(out, "Content OK: Varun Kumar Kota") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(out, "certificates") {
		t.Errorf("expected section counts in %q", out)
	}
	if !strings.Contains(out, "Skill categories: Languages & Frameworks, Data Engineering & ETL, AI/ML") {
		t.Errorf("expected category names in %q", out)
	}
}

func TestMailto(t *testing.T) {
	out, err := run(t, "mailto", "--name", "Jane", "--email", "jane@x.com", "--message", "Hi")
	if err != nil {
		t.Fatalf("mailto: %v", err)
	}
	if !strings.HasPrefix(out, "mailto:varunkkoct@gmail.com?subject=Portfolio%20Contact%3A%20Jane") {
		t.Errorf("unexpected link %q", out)
	}
}
