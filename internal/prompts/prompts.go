// Package prompts serves the static reference documents shipped with the
// server: the metadata generation prompt and the component usage guide.
// Files are returned verbatim.
package prompts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/starford/vision2ui/internal/apperr"
)

// Doc identifies one static document.
type Doc string

// Known documents.
const (
	MetadataPrompt Doc = "metadata_prompt"
	UsageGuide     Doc = "usage_guide"
)

var filenames = map[Doc]string{
	MetadataPrompt: "metadata-generation-prompt.md",
	UsageGuide:     "how-to-use-component.md",
}

// Docs reads static documents from a prompts directory.
type Docs struct {
	dir string
}

// New creates a Docs reader rooted at dir.
func New(dir string) *Docs {
	return &Docs{dir: dir}
}

// Path returns the file path backing doc.
func (d *Docs) Path(doc Doc) (string, error) {
	name, ok := filenames[doc]
	if !ok {
		return "", fmt.Errorf("%w: unknown document %q", apperr.ErrNotFound, doc)
	}
	return filepath.Join(d.dir, name), nil
}

// Get returns the text of doc. A missing file is ErrNotFound.
func (d *Docs) Get(doc Doc) (string, error) {
	p, err := d.Path(doc)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found at %s", apperr.ErrNotFound, doc, p)
		}
		return "", fmt.Errorf("%w: %w", apperr.ErrRead, err)
	}
	return string(data), nil
}
