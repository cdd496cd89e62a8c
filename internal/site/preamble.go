package site

import (
	"bytes"
	"fmt"

	"github.com/veleda/muninn/internal/models"
)

type notePreamble struct {
	Title  string     `yaml:"title"`
	Date   *string    `yaml:"date"`
	Tags   []string   `yaml:"tags"`
	Format noteFormat `yaml:"format"`
}

type noteFormat struct {
	HTML noteHTML `yaml:"html"`
}

type noteHTML struct {
	MathMethod string `yaml:"html-math-method"`
}

// NotePreamble renders the YAML front matter block prepended to a converted
// note. An undated note serializes as an explicit null and tags always
// serialize as a sequence, never null.
func NotePreamble(n models.Note) ([]byte, error) {
	p := notePreamble{
		Title:  n.Title,
		Tags:   n.Tags,
		Format: noteFormat{HTML: noteHTML{MathMethod: "katex"}},
	}
	if n.Date != "" {
		d := n.Date
		p.Date = &d
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	out, err := marshalYAML(p)
	if err != nil {
		return nil, fmt.Errorf("site: render front matter for %s: %w", n.OutputPath, err)
	}
	return []byte("---\n" + string(bytes.TrimSpace(out)) + "\n---\n\n"), nil
}
