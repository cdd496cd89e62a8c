package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pandoc")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestPandocDefaultPath(t *testing.T) {
	if p := NewPandoc(""); p.path != "pandoc" {
		t.Errorf("path = %q, want %q", p.path, "pandoc")
	}
}

func TestPandocCheckMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if err := NewPandoc("").Check(); err == nil {
		t.Fatal("Check() = nil, want error when pandoc is absent")
	}
}

func TestPandocCheckExplicitPath(t *testing.T) {
	script := writeScript(t, "exit 0")
	if err := NewPandoc(script).Check(); err != nil {
		t.Fatalf("Check() = %v", err)
	}
}

func TestPandocConvert(t *testing.T) {
	script := writeScript(t, `echo "# Converted"`)
	out, err := NewPandoc(script).Convert(context.Background(), "ignored.tex")
	if err != nil {
		t.Fatalf("Convert() = %v", err)
	}
	if out != "# Converted\n" {
		t.Errorf("out = %q, want %q", out, "# Converted\n")
	}
}

func TestPandocConvertSurfacesStderr(t *testing.T) {
	script := writeScript(t, `echo "Error at \"broken.tex\" line 3" >&2; exit 64`)
	_, err := NewPandoc(script).Convert(context.Background(), "broken.tex")
	if err == nil {
		t.Fatal("Convert() = nil, want error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error %q should carry pandoc stderr", err)
	}
}
