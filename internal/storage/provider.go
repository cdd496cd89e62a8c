// Package storage defines the site-root file-system abstraction.
package storage

import "github.com/veleda/muninn/internal/models"

// Provider is the interface for file operations under the site root.
type Provider interface {
	// List returns metadata for every file with the given extension under
	// dir (relative to the site root).
	List(dir, ext string) ([]models.FileMeta, error)
	// Read returns the raw bytes of the file at path (relative to the site root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the site root).
	Write(path string, content []byte) error
	// RemoveAll deletes the file or directory tree at path (relative to the
	// site root). A missing path is not an error.
	RemoveAll(path string) error
	// EnsureDir creates the directory at path (relative to the site root)
	// along with any missing parents.
	EnsureDir(path string) error
}
