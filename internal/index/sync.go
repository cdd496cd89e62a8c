package index

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/veleda/muninn/internal/models"
	"github.com/veleda/muninn/internal/storage"
)

const pageExt = ".qmd"

// Sync walks the generated pages under outputDir and brings the index up to
// date:
//   - new/changed pages are parsed and upserted
//   - pages gone from disk are deleted from the index
func Sync(db *DB, store storage.Provider, outputDir string, logger *slog.Logger) error {
	metas, err := store.List(outputDir, pageExt)
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexPage(db, m, data, outputDir); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteNote(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexPage parses a generated page's front matter and upserts it.
func indexPage(db *DB, m models.FileMeta, data []byte, outputDir string) error {
	var head struct {
		Title string   `yaml:"title"`
		Date  *string  `yaml:"date"`
		Tags  []string `yaml:"tags"`
	}
	body, err := frontmatter.Parse(bytes.NewReader(data), &head)
	if err != nil {
		return err
	}

	date := ""
	if head.Date != nil {
		date = *head.Date
	}
	tags := head.Tags
	if tags == nil {
		tags = []string{}
	}
	topic, course := classify(m.Path, outputDir)

	row := NoteRow{
		Path:      m.Path,
		Topic:     topic,
		Course:    course,
		Title:     head.Title,
		Date:      date,
		Tags:      tags,
		Checksum:  m.Checksum,
		UpdatedAt: m.UpdatedAt,
	}
	return db.UpsertNote(row, string(body))
}

// classify extracts topic and course from an output path shaped like
// <outputDir>/<topic>/<course>/<page>.qmd. outputDir may itself contain
// slashes.
func classify(p, outputDir string) (topic, course string) {
	rel := strings.TrimPrefix(p, strings.Trim(outputDir, "/")+"/")
	parts := strings.Split(rel, "/")
	if len(parts) >= 3 {
		return parts[0], parts[1]
	}
	return "", ""
}
