package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/vision2ui/internal/models"
)

const tmpPattern = ".vision2ui-tmp-*"

// FS implements Provider backed by a single local directory.
type FS struct {
	root string // absolute path to the component directory
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory does not need to exist yet; Create makes it on demand.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute storage directory.
func (f *FS) Root() string { return f.root }

// safePath resolves a plain filename against the root and rejects anything
// that carries a directory component (traversal, nested paths).
func (f *FS) safePath(name string) (string, error) {
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(f.root, name), nil
}

// List returns metadata for every immediate .md file under the root.
// Directories, dangling symlinks, and temp files are skipped.
func (f *FS) List() ([]models.DocumentMetadata, error) {
	info, err := os.Stat(f.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	out := make([]models.DocumentMetadata, 0, len(entries))
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		fi, err := os.Stat(filepath.Join(f.root, e.Name()))
		if err != nil || fi.IsDir() {
			continue
		}
		out = append(out, models.DocumentMetadata{
			Filename:  e.Name(),
			Size:      fi.Size(),
			UpdatedAt: fi.ModTime(),
		})
	}
	return out, nil
}

// Stat returns metadata for a single file.
func (f *FS) Stat(name string) (models.DocumentMetadata, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return models.DocumentMetadata{}, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return models.DocumentMetadata{}, fmt.Errorf("storage: stat %s: %w", name, err)
	}
	return models.DocumentMetadata{Filename: name, Size: fi.Size(), UpdatedAt: fi.ModTime()}, nil
}

// Exists reports whether name is present in the storage directory.
func (f *FS) Exists(name string) (bool, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", name, err)
	}
	return true, nil
}

// Read returns the raw bytes of a stored file.
func (f *FS) Read(name string) ([]byte, error) {
	abs, err := f.safePath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return data, nil
}

// Create writes content to a temp file, fsyncs it, and hard-links it into
// place. The link fails when the target exists, so concurrent creates of the
// same name cannot overwrite each other and readers never see a partial file.
func (f *FS) Create(name string, content []byte) error {
	abs, err := f.safePath(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.root, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(f.root, tmpPattern)
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("storage: chmod: %w", err)
	}
	if err := os.Link(tmpName, abs); err != nil {
		return fmt.Errorf("storage: link %s: %w", name, err)
	}
	return nil
}
