// Package sanitize normalizes user-supplied names into path and URL segments.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	nonWordRe  = regexp.MustCompile(`[^\w\s-]`)
	spaceRunRe = regexp.MustCompile(`\s+`)
	slugSepRe  = regexp.MustCompile(`[\s_]+`)
	dashRunRe  = regexp.MustCompile(`-{2,}`)
)

// Segment converts a free-form name into a single directory segment:
// punctuation is dropped and whitespace runs become underscores, so the
// result can never escape its directory or introduce separators. Case is
// preserved. A name with nothing left becomes "unknown".
func Segment(name string) string {
	s := strings.TrimSpace(name)
	s = nonWordRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, "_")
	if s == "" {
		return "unknown"
	}
	return s
}

// Slug converts a title into a URL-safe file stem: lowercased, punctuation
// dropped, whitespace and underscore runs collapsed to single hyphens, and
// leading or trailing hyphens removed. A title with nothing left becomes
// "note".
func Slug(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonWordRe.ReplaceAllString(s, "")
	s = slugSepRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "note"
	}
	return s
}
