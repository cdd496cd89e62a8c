package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/veleda/muninn/internal/index"
	"github.com/veleda/muninn/internal/storage"
	"github.com/veleda/muninn/internal/testutil"
)

func testServer(t *testing.T) (*Server, storage.Provider, *index.DB) {
	t.Helper()

	_, store := testutil.TestSiteRoot(t)
	db := testutil.TestDB(t)

	srv := New(store, db)
	return srv, store, db
}

// seedPage publishes a fake page to both the store and the index.
func seedPage(t *testing.T, store storage.Provider, db *index.DB, row index.NoteRow, content string) {
	t.Helper()
	if err := store.Write(row.Path, []byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := db.UpsertNote(row, content); err != nil {
		t.Fatal(err)
	}
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we test
	// through the tool handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_notes":
		result, err = srv.searchNotes(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	case "site_outline":
		result, err = srv.siteOutline(ctx, req)
	case "get_note_contract":
		result, err = srv.getNoteContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestReadNote(t *testing.T) {
	srv, store, db := testServer(t)
	seedPage(t, store, db, index.NoteRow{
		Path: "calculus/mvc/limits.qmd", Topic: "calculus", Course: "mvc", Title: "Limits", Tags: []string{},
	}, "---\ntitle: Limits\n---\n\n# Limits\n")

	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "calculus/mvc/limits.qmd"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if text := resultText(r); !strings.Contains(text, "# Limits") {
		t.Errorf("read result = %q", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "nope/none/gone.qmd"})
	if !r.IsError {
		t.Error("expected error for missing page")
	}
}

func TestSearchNotes(t *testing.T) {
	srv, store, db := testServer(t)
	seedPage(t, store, db, index.NoteRow{
		Path: "calculus/mvc/gradient.qmd", Topic: "calculus", Course: "mvc", Title: "Gradient", Tags: []string{},
	}, "The gradient points uphill.")

	r := callTool(t, srv, "search_notes", map[string]interface{}{"query": "gradient"})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if text := resultText(r); !strings.Contains(text, "calculus/mvc/gradient.qmd") {
		t.Errorf("search result missing hit: %q", text)
	}
}

func TestListNotes(t *testing.T) {
	srv, store, db := testServer(t)
	seedPage(t, store, db, index.NoteRow{Path: "a/x/1.qmd", Topic: "a", Course: "x", Title: "One", Tags: []string{}}, "1")
	seedPage(t, store, db, index.NoteRow{Path: "b/y/2.qmd", Topic: "b", Course: "y", Title: "Two", Tags: []string{}}, "2")

	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "a/x/1.qmd") || !strings.Contains(text, "b/y/2.qmd") {
		t.Errorf("list = %q, want both pages", text)
	}

	r = callTool(t, srv, "list_notes", map[string]interface{}{"topic": "b"})
	text = resultText(r)
	if strings.Contains(text, "a/x/1.qmd") || !strings.Contains(text, "b/y/2.qmd") {
		t.Errorf("filtered list = %q, want only topic b", text)
	}
}

func TestSiteOutline(t *testing.T) {
	srv, store, db := testServer(t)
	seedPage(t, store, db, index.NoteRow{
		Path: "calculus/mvc/limits.qmd", Topic: "calculus", Course: "mvc", Title: "Limits", Date: "2024-03-01", Tags: []string{},
	}, "l")

	r := callTool(t, srv, "site_outline", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	text := resultText(r)
	for _, want := range []string{`"name": "calculus"`, `"name": "mvc"`, `"path": "calculus/mvc/limits.qmd"`, `"date": "2024-03-01"`} {
		if !strings.Contains(text, want) {
			t.Errorf("outline missing %s in %q", want, text)
		}
	}
}

func TestGetNoteContract(t *testing.T) {
	srv, _, _ := testServer(t)
	r := callTool(t, srv, "get_note_contract", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "% title:") || !strings.Contains(text, "<topic>/<course>/<name>.tex") {
		t.Errorf("contract text missing source format details")
	}
}

func TestNoteFormatResource(t *testing.T) {
	srv, _, _ := testServer(t)
	contents, err := srv.readNoteFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	if tc.URI != "muninn://note-format" {
		t.Errorf("uri = %q", tc.URI)
	}
	if !strings.Contains(tc.Text, "% key: value") {
		t.Errorf("resource text missing header description")
	}
}
