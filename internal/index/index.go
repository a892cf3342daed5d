// Package index builds the component name → filename mapping from the
// storage directory. The mapping is recomputed from scratch on every call.
package index

import (
	"sort"

	"github.com/starford/vision2ui/internal/naming"
	"github.com/starford/vision2ui/internal/storage"
)

// Mapping maps a component name to the filename that backs it.
type Mapping map[string]string

// Rebuild scans the storage directory and returns a fresh Mapping.
// A missing storage directory yields an empty Mapping. When two files derive
// the same name, the one enumerated last wins.
func Rebuild(store storage.Provider) (Mapping, error) {
	metas, err := store.List()
	if err != nil {
		return nil, err
	}
	m := make(Mapping, len(metas))
	for _, meta := range metas {
		name := naming.DeriveName(meta.Filename)
		if name == "" {
			continue
		}
		m[name] = meta.Filename
	}
	return m, nil
}

// Names returns the mapping keys sorted ascending.
func (m Mapping) Names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the filename for name.
func (m Mapping) Lookup(name string) (string, bool) {
	f, ok := m[name]
	return f, ok
}
