// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the published notes site to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/veleda/muninn/internal/index"
	"github.com/veleda/muninn/internal/models"
	"github.com/veleda/muninn/internal/site"
	"github.com/veleda/muninn/internal/storage"
)

// Server wraps the MCP server with Muninn tools. All tools are read-only:
// pages are produced by the build pipeline, never through MCP.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	db    *index.DB
}

// New creates a new MCP server with all Muninn tools registered.
// store must be rooted at the generated site directory.
func New(store storage.Provider, db *index.DB) *Server {
	s := &Server{store: store, db: db}

	s.mcp = server.NewMCPServer(
		"Muninn",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through published note pages."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full Markdown content of a published page."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path (e.g. notes/calculus/multivariable_calculus/limits.qmd)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List published pages, optionally restricted to one topic."),
		mcp.WithString("topic", mcp.Description("Optional topic to list (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("site_outline",
		mcp.WithDescription("Get the site hierarchy: topics, their courses, and the pages of each course."),
	), s.siteOutline)

	s.mcp.AddTool(mcp.NewTool("get_note_contract",
		mcp.WithDescription("Returns the canonical LaTeX source note contract. "+
			"Call this before writing new source notes so the pipeline can publish them."),
	), s.getNoteContract)

	// Resource: source note format contract.
	s.mcp.AddResource(
		mcp.NewResource("muninn://note-format", "Source Note Contract",
			mcp.WithResourceDescription("Canonical LaTeX source layout that publishable notes must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.db.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := ""
	if v, err := req.RequireString("topic"); err == nil {
		topic = v
	}

	rows, err := s.db.AllNotes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var lines []string
	for _, r := range rows {
		if topic != "" && r.Topic != topic {
			continue
		}
		lines = append(lines, r.Path)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

// outlinePage, outlineCourse and outlineTopic shape the site_outline JSON.
type outlinePage struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Date  string `json:"date,omitempty"`
}

type outlineCourse struct {
	Name  string        `json:"name"`
	Pages []outlinePage `json:"pages"`
}

type outlineTopic struct {
	Name    string          `json:"name"`
	Courses []outlineCourse `json:"courses"`
}

func (s *Server) siteOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rows, err := s.db.AllNotes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	notes := make([]models.Note, len(rows))
	for i, r := range rows {
		notes[i] = models.Note{
			Title:      r.Title,
			Date:       r.Date,
			Tags:       r.Tags,
			Topic:      r.Topic,
			Course:     r.Course,
			OutputPath: r.Path,
		}
	}
	tree := site.BuildTree(notes)

	topics := make([]outlineTopic, len(tree.Topics))
	for i, tp := range tree.Topics {
		courses := make([]outlineCourse, len(tp.Courses))
		for j, c := range tp.Courses {
			pages := make([]outlinePage, len(c.Notes))
			for k, n := range c.Notes {
				pages[k] = outlinePage{Path: n.OutputPath, Title: n.Title, Date: n.Date}
			}
			courses[j] = outlineCourse{Name: c.Name, Pages: pages}
		}
		topics[i] = outlineTopic{Name: tp.Name, Courses: courses}
	}

	out, _ := json.MarshalIndent(topics, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getNoteContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SourceFormatContract), nil
}

func (s *Server) readNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "muninn://note-format",
			MIMEType: "text/markdown",
			Text:     SourceFormatContract,
		},
	}, nil
}
