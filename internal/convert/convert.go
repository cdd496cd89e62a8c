// Package convert turns LaTeX sources into Markdown via an external tool.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Converter produces the Markdown body for one LaTeX source file.
type Converter interface {
	// Check verifies the converter is usable before a batch starts.
	Check() error
	// Convert returns the converted document body for the file at src.
	Convert(ctx context.Context, src string) (string, error)
}

const (
	fromFormat = "latex"
	// tex_math_dollars keeps $...$ math intact for KaTeX.
	toFormat = "commonmark_x+tex_math_dollars"
)

// Pandoc shells out to a pandoc binary.
type Pandoc struct {
	path string
}

// NewPandoc creates a Pandoc converter. An empty path means "pandoc",
// resolved from PATH.
func NewPandoc(path string) *Pandoc {
	if path == "" {
		path = "pandoc"
	}
	return &Pandoc{path: path}
}

// Check reports whether the pandoc binary can be executed.
func (p *Pandoc) Check() error {
	if _, err := exec.LookPath(p.path); err != nil {
		return fmt.Errorf("convert: pandoc is required, install it and ensure %q is runnable: %w", p.path, err)
	}
	return nil
}

// Convert runs pandoc on src and returns the converted body. On failure the
// returned error carries pandoc's diagnostic output verbatim.
func (p *Pandoc) Convert(ctx context.Context, src string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.path, src,
		"--from="+fromFormat,
		"--to="+toFormat,
		"--wrap=none",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("convert: pandoc failed on %s: %w: %s", src, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
