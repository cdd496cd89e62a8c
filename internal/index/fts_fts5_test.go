//go:build sqlite_fts5

package index

import (
	"strings"
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM notes_fts`).Scan(&count); err != nil {
		t.Fatalf("notes_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	row := NoteRow{
		Path:      "notes/physics/mechanics/inertia.qmd",
		Topic:     "physics",
		Course:    "mechanics",
		Title:     "Inertia",
		Checksum:  "f1",
		Tags:      []string{"mechanics"},
		UpdatedAt: time.Now(),
	}
	if err := db.UpsertNote(row, "A body remains at rest unless acted on by an external force."); err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}

	results, err := db.Search("external", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Path != "notes/physics/mechanics/inertia.qmd" {
		t.Errorf("path = %q", results[0].Path)
	}
	if !strings.Contains(results[0].Snippet, "<b>external</b>") {
		t.Errorf("snippet = %q, want bold match markers", results[0].Snippet)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertNote(NoteRow{Path: "notes/t/c/gone.qmd", Checksum: "g", Tags: []string{}, UpdatedAt: time.Now()}, "vanishing content")
	_ = db.DeleteNote("notes/t/c/gone.qmd")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.Path == "notes/t/c/gone.qmd" {
			t.Error("deleted page still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertNote(NoteRow{Path: "notes/t/c/evo.qmd", Title: "Old", Checksum: "1", Tags: []string{}, UpdatedAt: now}, "original text")
	_ = db.UpsertNote(NoteRow{Path: "notes/t/c/evo.qmd", Title: "New", Checksum: "2", Tags: []string{}, UpdatedAt: now}, "replacement text")

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
