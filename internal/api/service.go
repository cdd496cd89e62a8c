package api

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/veleda/muninn/internal/apperr"
	"github.com/veleda/muninn/internal/index"
	"github.com/veleda/muninn/internal/models"
	"github.com/veleda/muninn/internal/site"
	"github.com/veleda/muninn/internal/storage"
)

// Service coordinates index lookups and page reads for the API layer.
// store is rooted at the generated site directory, so paths match the
// index keys exactly.
type Service struct {
	store storage.Provider
	db    *index.DB
}

// NewService creates a new API service.
func NewService(store storage.Provider, db *index.DB) *Service {
	return &Service{store: store, db: db}
}

// NoteDetail is the response payload for a single published page.
type NoteDetail struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Course    string    `json:"course"`
	Date      string    `json:"date,omitempty"`
	Tags      []string  `json:"tags"`
	Content   string    `json:"content"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	Topic     string    `json:"topic"`
	Course    string    `json:"course"`
	Date      string    `json:"date,omitempty"`
	Tags      []string  `json:"tags"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetNote returns the indexed metadata plus the rendered Markdown for one
// page. The index and the site directory can briefly disagree during a
// rebuild; a page missing from either side reports not found.
func (s *Service) GetNote(_ context.Context, path string) (*NoteDetail, error) {
	row, err := s.db.GetNote(path)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &NoteDetail{
		Path:      row.Path,
		Title:     row.Title,
		Topic:     row.Topic,
		Course:    row.Course,
		Date:      row.Date,
		Tags:      row.Tags,
		Content:   string(data),
		Checksum:  row.Checksum,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// ListNotes returns paginated pages with an optional topic filter.
func (s *Service) ListNotes(_ context.Context, limit, offset int, topic string) ([]NoteListItem, int, error) {
	rows, total, err := s.db.ListNotes(limit, offset, topic)
	if err != nil {
		return nil, 0, err
	}
	items := make([]NoteListItem, len(rows))
	for i, r := range rows {
		items[i] = NoteListItem{
			Path:      r.Path,
			Title:     r.Title,
			Topic:     r.Topic,
			Course:    r.Course,
			Date:      r.Date,
			Tags:      r.Tags,
			UpdatedAt: r.UpdatedAt,
		}
	}
	return items, total, nil
}

// Search delegates to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	return s.db.Search(query, limit)
}

// Outline returns the published topic -> course -> page hierarchy in the
// same order the site sidebar presents it.
func (s *Service) Outline(_ context.Context) ([]OutlineTopic, error) {
	rows, err := s.db.AllNotes()
	if err != nil {
		return nil, err
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

	topics := make([]OutlineTopic, len(tree.Topics))
	for i, tp := range tree.Topics {
		courses := make([]OutlineCourse, len(tp.Courses))
		for j, c := range tp.Courses {
			pages := make([]OutlineNote, len(c.Notes))
			for k, n := range c.Notes {
				pages[k] = OutlineNote{Path: n.OutputPath, Title: n.Title, Date: n.Date}
			}
			courses[j] = OutlineCourse{Name: c.Name, Notes: pages}
		}
		topics[i] = OutlineTopic{Name: tp.Name, Courses: courses}
	}
	return topics, nil
}
