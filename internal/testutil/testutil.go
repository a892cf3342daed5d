// Package testutil provides shared test helpers for component directories.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/vision2ui/internal/component"
	"github.com/starford/vision2ui/internal/models"
	"github.com/starford/vision2ui/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDir creates a temporary component directory pre-populated with files
// (filename → content).
func TestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestStore creates a component.Store over a temporary directory.
func TestStore(t *testing.T, files map[string]string, opts ...component.Option) (string, *component.Store) {
	t.Helper()
	dir := TestDir(t, files)
	docs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]component.Option{component.WithLogger(Logger())}, opts...)
	return dir, component.NewStore(docs, opts...)
}

// TestPrompts creates a prompts directory holding the given files.
func TestPrompts(t *testing.T, files map[string]string) string {
	t.Helper()
	return TestDir(t, files)
}

// Faults lists the errors a FaultyProvider returns. A nil field leaves that
// operation to the wrapped provider.
type Faults struct {
	List   error
	Read   error
	Create error
}

// FaultyProvider wraps a storage.Provider and injects Faults.
type FaultyProvider struct {
	storage.Provider
	Faults Faults
}

// List implements storage.Provider.
func (p *FaultyProvider) List() ([]models.DocumentMetadata, error) {
	if p.Faults.List != nil {
		return nil, p.Faults.List
	}
	return p.Provider.List()
}

// Read implements storage.Provider.
func (p *FaultyProvider) Read(filename string) ([]byte, error) {
	if p.Faults.Read != nil {
		return nil, p.Faults.Read
	}
	return p.Provider.Read(filename)
}

// Create implements storage.Provider.
func (p *FaultyProvider) Create(filename string, content []byte) error {
	if p.Faults.Create != nil {
		return p.Faults.Create
	}
	return p.Provider.Create(filename, content)
}

// FaultyStore is TestStore over a FaultyProvider.
func FaultyStore(t *testing.T, files map[string]string, faults Faults, opts ...component.Option) (string, *component.Store) {
	t.Helper()
	dir := TestDir(t, files)
	docs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	opts = append([]component.Option{component.WithLogger(Logger())}, opts...)
	return dir, component.NewStore(&FaultyProvider{Provider: docs, Faults: faults}, opts...)
}
