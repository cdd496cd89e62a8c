// Package build orchestrates the batch pipeline from staged LaTeX sources
// to the generated site: discover, classify, convert, and emit.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/veleda/muninn/internal/apperr"
	"github.com/veleda/muninn/internal/convert"
	"github.com/veleda/muninn/internal/models"
	"github.com/veleda/muninn/internal/registry"
	"github.com/veleda/muninn/internal/site"
	"github.com/veleda/muninn/internal/storage"
)

// Collision policies.
const (
	OnCollisionWarn = "warn"
	OnCollisionFail = "fail"
)

// Options configure one batch build.
type Options struct {
	StagingDir  string // directory holding <topic>/<course>/<name>.tex sources
	OutputDir   string // site-root-relative directory for converted notes
	Title       string
	Theme       string
	CSS         string
	Jobs        int    // parallel conversions, minimum 1
	OnCollision string // OnCollisionWarn or OnCollisionFail
}

// Stats summarizes a completed build.
type Stats struct {
	Notes      int `json:"notes"`
	Topics     int `json:"topics"`
	Collisions int `json:"collisions"`
}

// Builder runs the staged-sources-to-site pipeline against one site root.
type Builder struct {
	store  storage.Provider
	conv   convert.Converter
	logger *slog.Logger
	opts   Options
}

// New creates a Builder. Jobs below 1 run sequentially and an empty
// collision policy defaults to warn.
func New(store storage.Provider, conv convert.Converter, logger *slog.Logger, opts Options) *Builder {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	if opts.OnCollision == "" {
		opts.OnCollision = OnCollisionWarn
	}
	return &Builder{store: store, conv: conv, logger: logger, opts: opts}
}

// Run executes the full pipeline: converter check, discovery, collision
// handling, output cleaning, conversion, asset copying, and the homepage and
// project configuration. The previous output directory is only removed once
// the source tree has been classified successfully.
func (b *Builder) Run(ctx context.Context) (*Stats, error) {
	if err := b.conv.Check(); err != nil {
		return nil, err
	}
	files, err := registry.Discover(b.opts.StagingDir)
	if err != nil {
		return nil, err
	}
	notes, collisions, err := registry.Build(b.opts.StagingDir, b.opts.OutputDir, files)
	if err != nil {
		return nil, err
	}
	for _, c := range collisions {
		if b.opts.OnCollision == OnCollisionFail {
			return nil, fmt.Errorf("build: %d sources map to %s (%s): %w",
				len(c.Sources), c.OutputPath, strings.Join(c.Sources, ", "), apperr.ErrCollision)
		}
		b.logger.Warn("slug collision, last writer wins",
			slog.String("output", c.OutputPath),
			slog.String("sources", strings.Join(c.Sources, ", ")))
	}
	if len(collisions) > 0 {
		notes = dedupeByOutput(notes)
	}

	if err := b.store.RemoveAll(b.opts.OutputDir); err != nil {
		return nil, err
	}
	if err := b.store.EnsureDir(b.opts.OutputDir); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Jobs)
	for _, n := range notes {
		g.Go(func() error {
			return b.emitNote(gctx, n)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := b.copyAssets(notes); err != nil {
		return nil, err
	}

	settings := site.Settings{Title: b.opts.Title, Theme: b.opts.Theme, CSS: b.opts.CSS}
	if err := b.store.Write("index.qmd", site.Homepage(notes, settings)); err != nil {
		return nil, err
	}
	tree := site.BuildTree(notes)
	cfg, err := site.QuartoConfig(tree, settings)
	if err != nil {
		return nil, err
	}
	if err := b.store.Write("_quarto.yml", cfg); err != nil {
		return nil, err
	}

	return &Stats{Notes: len(notes), Topics: len(tree.Topics), Collisions: len(collisions)}, nil
}

// dedupeByOutput keeps only the last note per output path, in source order.
// Shadowed notes are dropped entirely so the sidebar and homepage never link
// twice to one page.
func dedupeByOutput(notes []models.Note) []models.Note {
	last := map[string]int{}
	for i, n := range notes {
		last[n.OutputPath] = i
	}
	out := make([]models.Note, 0, len(last))
	for i, n := range notes {
		if last[n.OutputPath] == i {
			out = append(out, n)
		}
	}
	return out
}

// emitNote converts one source and writes it with its front matter. Notes
// never reference each other during conversion, so emits are parallel-safe;
// colliding outputs are resolved by Run before the group starts.
func (b *Builder) emitNote(ctx context.Context, n models.Note) error {
	body, err := b.conv.Convert(ctx, n.SourcePath)
	if err != nil {
		return err
	}
	fm, err := site.NotePreamble(n)
	if err != nil {
		return err
	}
	if err := b.store.Write(n.OutputPath, append(fm, body...)); err != nil {
		return err
	}
	b.logger.Debug("note converted",
		slog.String("source", n.SourcePath),
		slog.String("output", n.OutputPath))
	return nil
}
