// Package registry discovers staged LaTeX sources and derives the note
// records the site is built from.
package registry

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/veleda/muninn/internal/models"
	"github.com/veleda/muninn/internal/parser"
	"github.com/veleda/muninn/internal/sanitize"
)

const sourceExt = ".tex"

// Collision reports distinct sources whose notes map to one output path.
type Collision struct {
	OutputPath string
	Sources    []string
}

// Discover returns every LaTeX source under stagingDir, sorted by path. A
// missing staging directory or an empty tree is an error: both mean there is
// nothing to build and the caller should stop.
func Discover(stagingDir string) ([]string, error) {
	info, err := os.Stat(stagingDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("registry: missing staging directory %s", stagingDir)
	}
	var files []string
	err = filepath.WalkDir(stagingDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == sourceExt {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registry: scan %s: %w", stagingDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("registry: no %s files under %s", sourceExt, stagingDir)
	}
	slices.Sort(files)
	return files, nil
}

// Build derives a note record for every source file and detects output-path
// collisions. outputDir is the site-relative directory converted notes are
// written under. How collisions are handled is the caller's policy; the
// registry only reports them.
func Build(stagingDir, outputDir string, files []string) ([]models.Note, []Collision, error) {
	notes := make([]models.Note, 0, len(files))
	sources := map[string][]string{}
	for _, file := range files {
		n, err := derive(stagingDir, outputDir, file)
		if err != nil {
			return nil, nil, err
		}
		notes = append(notes, n)
		sources[n.OutputPath] = append(sources[n.OutputPath], file)
	}

	var collisions []Collision
	seen := map[string]bool{}
	for _, n := range notes {
		if seen[n.OutputPath] || len(sources[n.OutputPath]) < 2 {
			continue
		}
		seen[n.OutputPath] = true
		collisions = append(collisions, Collision{
			OutputPath: n.OutputPath,
			Sources:    sources[n.OutputPath],
		})
	}
	return notes, collisions, nil
}

func derive(stagingDir, outputDir, file string) (models.Note, error) {
	rel, err := filepath.Rel(stagingDir, file)
	if err != nil {
		return models.Note{}, fmt.Errorf("registry: %s is outside %s: %w", file, stagingDir, err)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 3 {
		return models.Note{}, fmt.Errorf("registry: expected <topic>/<course>/<name>%s under %s, got %s", sourceExt, stagingDir, rel)
	}
	topic := sanitize.Segment(parts[0])
	course := sanitize.Segment(parts[1])

	data, err := os.ReadFile(file)
	if err != nil {
		return models.Note{}, fmt.Errorf("registry: read %s: %w", file, err)
	}
	meta := parser.Extract(data)

	title := meta["title"]
	if title == "" {
		title = titleFromStem(strings.TrimSuffix(filepath.Base(file), sourceExt))
	}
	slug := sanitize.Slug(title)

	return models.Note{
		Title:      title,
		Date:       meta["date"],
		Tags:       splitTags(meta["tags"]),
		Topic:      topic,
		Course:     course,
		Slug:       slug,
		SourcePath: file,
		OutputPath: path.Join(outputDir, topic, course, slug+".qmd"),
	}, nil
}

// splitTags parses a comma-separated tag list. The result is never nil so
// that an absent or empty list serializes as an empty sequence.
func splitTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func titleFromStem(stem string) string {
	return titleCase(strings.NewReplacer("_", " ", "-", " ").Replace(stem))
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, treating any non-letter as a word boundary.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
