package site

import (
	"fmt"
	"slices"
	"strings"

	"github.com/veleda/muninn/internal/models"
)

// recentLimit caps the homepage listing.
const recentLimit = 30

// Homepage renders index.qmd: a fixed preamble, the site heading, and the
// most recent notes newest-first. Undated notes sort to the end and dated
// entries carry their raw date as a suffix.
func Homepage(notes []models.Note, s Settings) []byte {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b models.Note) int { return models.Compare(b, a) })
	if len(sorted) > recentLimit {
		sorted = sorted[:recentLimit]
	}

	lines := []string{
		"---",
		"title: Home",
		"format:",
		"  html:",
		"    toc: false",
		"---",
		"",
		"# " + s.Title,
		"",
		"Browse using the sidebar (Topic → Class → Note).",
		"",
		"## Recent notes",
		"",
	}
	for _, n := range sorted {
		entry := fmt.Sprintf("- [%s](%s)", n.Title, n.OutputPath)
		if n.Date != "" {
			entry += " — " + n.Date
		}
		lines = append(lines, entry)
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}
