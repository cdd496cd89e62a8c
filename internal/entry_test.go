package internal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/veleda/muninn/internal/index"
)

// fakeConverter stands in for pandoc.
type fakeConverter struct{}

func (fakeConverter) Check() error { return nil }

func (fakeConverter) Convert(_ context.Context, src string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return fmt.Sprintf("# Body of %s\n", base), nil
}

func TestRunBuild(t *testing.T) {
	root := t.TempDir()
	courseDir := filepath.Join(root, "notes_staging", "calculus", "mvc")
	if err := os.MkdirAll(courseDir, 0o755); err != nil {
		t.Fatal(err)
	}
	src := "% title: Limits\n% date: 2024-03-01\n% tags: calculus\n\n\\section{Limits}\n"
	if err := os.WriteFile(filepath.Join(courseDir, "limits.tex"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.Site.Root = root
	cfg.Index.Path = filepath.Join(root, "muninn.db")

	if err := RunBuild(context.Background(), WithConfig(cfg), WithConverter(fakeConverter{})); err != nil {
		t.Fatalf("RunBuild: %v", err)
	}

	for _, p := range []string{"index.qmd", "_quarto.yml", "notes/calculus/mvc/limits.qmd"} {
		if _, err := os.Stat(filepath.Join(root, p)); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}

	// The search index was refreshed after the build.
	db, err := index.Open(cfg.Index.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	row, err := db.GetNote("notes/calculus/mvc/limits.qmd")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if row.Title != "Limits" || row.Topic != "calculus" || row.Course != "mvc" {
		t.Errorf("row = %+v", row)
	}
}

func TestRunBuildMissingStaging(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Site.Root = t.TempDir()
	cfg.Index.Path = filepath.Join(cfg.Site.Root, "muninn.db")

	err := RunBuild(context.Background(), WithConfig(cfg), WithConverter(fakeConverter{}))
	if err == nil {
		t.Fatal("expected error for missing staging dir")
	}
}

func TestRunBuildRequiresConfig(t *testing.T) {
	if err := RunBuild(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
