package build

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/veleda/muninn/internal/models"
)

// assetDirNames are the sibling directories copied next to converted notes.
var assetDirNames = []string{"images", "assets"}

// copyAssets mirrors sibling image and asset directories of each source into
// the output tree. Source directories are deduped first: notes of one course
// share the same siblings, and copying each directory once keeps repeated
// destructive copies out of the pipeline.
func (b *Builder) copyAssets(notes []models.Note) error {
	type target struct{ src, dst string }
	seen := map[target]bool{}
	var targets []target
	for _, n := range notes {
		for _, name := range assetDirNames {
			tg := target{
				src: filepath.Join(filepath.Dir(n.SourcePath), name),
				dst: path.Join(path.Dir(n.OutputPath), name),
			}
			if seen[tg] {
				continue
			}
			seen[tg] = true
			targets = append(targets, tg)
		}
	}
	for _, tg := range targets {
		info, err := os.Stat(tg.src)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := b.store.RemoveAll(tg.dst); err != nil {
			return err
		}
		if err := b.copyTree(tg.src, tg.dst); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) copyTree(srcDir, dstDir string) error {
	return filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("build: read asset %s: %w", p, err)
		}
		return b.store.Write(path.Join(dstDir, filepath.ToSlash(rel)), data)
	})
}
