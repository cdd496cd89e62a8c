// Package models defines the domain types for Muninn.
package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar format accepted in note headers.
const DateLayout = "2006-01-02"

// Note represents one staged LaTeX source and the site page derived from it.
type Note struct {
	Title      string   `json:"title"`
	Date       string   `json:"date,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Topic      string   `json:"topic"`
	Course     string   `json:"course"`
	Slug       string   `json:"slug"`
	SourcePath string   `json:"source_path"`
	OutputPath string   `json:"output_path"`
}

// FileMeta is a lightweight record for one file under the site root.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseDate interprets a raw header date. ok is false for empty or malformed
// values; callers treat those notes as undated rather than failing the note.
func ParseDate(raw string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Compare orders notes for presentation: undated notes first, then by date
// ascending, then by lowercased title. Emitters that want newest-first sort
// with the arguments swapped, which places undated notes last instead.
func Compare(a, b Note) int {
	da, aok := ParseDate(a.Date)
	db, bok := ParseDate(b.Date)
	switch {
	case aok != bok:
		if aok {
			return 1
		}
		return -1
	case aok:
		if c := da.Compare(db); c != 0 {
			return c
		}
	}
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}
