// Package storage defines the component document file-system abstraction.
package storage

import (
	"errors"

	"github.com/starford/vision2ui/internal/models"
)

// ErrInvalidName is returned for filenames that are not a plain file name
// inside the storage directory.
var ErrInvalidName = errors.New("storage: invalid file name")

// Provider is the interface for component document file operations.
// All filenames are plain names relative to the storage directory.
type Provider interface {
	// Root returns the absolute storage directory.
	Root() string
	// List returns metadata for every immediate .md file in the storage
	// directory. A missing directory yields an empty result.
	List() ([]models.DocumentMetadata, error)
	// Stat returns metadata for a single file.
	Stat(filename string) (models.DocumentMetadata, error)
	// Exists reports whether filename is present.
	Exists(filename string) (bool, error)
	// Read returns the raw bytes of filename.
	Read(filename string) ([]byte, error)
	// Create writes a new file and fails with fs.ErrExist if filename is
	// already present. The storage directory is created when missing.
	Create(filename string, content []byte) error
}
