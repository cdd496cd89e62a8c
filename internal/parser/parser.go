// Package parser extracts the metadata header from staged LaTeX sources.
//
// A header is the run of TeX comment lines at the top of a file, each of the
// form `% key: value`. Blank lines inside the header are allowed; scanning
// stops at the first line of real content, so commented key-value pairs in
// the document body are never picked up.
package parser

import (
	"regexp"
	"strings"
)

var metaLineRe = regexp.MustCompile(`^\s*%\s*([A-Za-z0-9_-]+)\s*:\s*(.*?)\s*$`)

// Metadata maps lowercased header keys to their raw values.
type Metadata map[string]string

// Extract scans the top of a LaTeX source for `% key: value` lines. Keys are
// lowercased and a repeated key keeps its last value. Comment lines that do
// not carry a key-value pair are skipped without ending the header.
func Extract(data []byte) Metadata {
	meta := Metadata{}
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, "%") {
			break
		}
		if m := metaLineRe.FindStringSubmatch(line); m != nil {
			meta[strings.ToLower(m[1])] = m[2]
		}
	}
	return meta
}
