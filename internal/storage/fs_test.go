package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/veleda/muninn/internal/checksum"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	f, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f
}

func TestNewFSMissingRoot(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("NewFS should fail for a missing root")
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	f := newTestFS(t)
	content := []byte("# Converted\n")
	if err := f.Write("notes/physics/mechanics/newtons-laws.qmd", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := f.Read("notes/physics/mechanics/newtons-laws.qmd")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Read = %q, want %q", got, content)
	}
}

func TestWriteOverwrites(t *testing.T) {
	f := newTestFS(t)
	if err := f.Write("index.qmd", []byte("one")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Write("index.qmd", []byte("two")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := f.Read("index.qmd")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Read = %q, want %q", got, "two")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	f := newTestFS(t)
	if err := f.Write("a/b.qmd", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(f.root, "a"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "b.qmd" {
		t.Errorf("entries = %v, want only b.qmd", entries)
	}
}

func TestReadMissingFile(t *testing.T) {
	f := newTestFS(t)
	_, err := f.Read("nope.qmd")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read missing = %v, want fs.ErrNotExist", err)
	}
}

func TestSafePathRejectsTraversal(t *testing.T) {
	f := newTestFS(t)
	for _, p := range []string{"../escape.qmd", "notes/../../escape.qmd", "/etc/passwd"} {
		if _, err := f.Read(p); err == nil {
			t.Errorf("Read(%q) should be rejected", p)
		}
		if err := f.Write(p, []byte("x")); err == nil {
			t.Errorf("Write(%q) should be rejected", p)
		}
	}
}

func TestListFiltersAndHashes(t *testing.T) {
	f := newTestFS(t)
	if err := f.Write("notes/t/c/a.qmd", []byte("alpha")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Write("notes/t/c/images/fig.png", []byte{0x89, 0x50}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	metas, err := f.List("notes", ".qmd")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 1 {
		t.Fatalf("len(metas) = %d, want 1", len(metas))
	}
	m := metas[0]
	if m.Path != "notes/t/c/a.qmd" {
		t.Errorf("Path = %q, want forward-slashed root-relative path", m.Path)
	}
	if m.Checksum != checksum.Sum([]byte("alpha")) {
		t.Errorf("Checksum = %q, want sha256 of content", m.Checksum)
	}
	if m.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestRemoveAll(t *testing.T) {
	f := newTestFS(t)
	if err := f.Write("notes/t/c/a.qmd", []byte("x")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.RemoveAll("notes"); err != nil {
		t.Fatalf("RemoveAll: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.root, "notes")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("notes dir should be gone, stat err = %v", err)
	}
	// Missing targets are fine.
	if err := f.RemoveAll("notes"); err != nil {
		t.Errorf("RemoveAll on missing path = %v, want nil", err)
	}
	// The root itself is protected.
	if err := f.RemoveAll(""); err == nil {
		t.Error("RemoveAll(\"\") should be rejected")
	}
}

func TestEnsureDir(t *testing.T) {
	f := newTestFS(t)
	if err := f.EnsureDir("notes/physics"); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	info, err := os.Stat(filepath.Join(f.root, "notes", "physics"))
	if err != nil || !info.IsDir() {
		t.Errorf("stat = %v, %v; want directory", info, err)
	}
	if err := f.EnsureDir("notes/physics"); err != nil {
		t.Errorf("EnsureDir twice = %v, want nil", err)
	}
}
