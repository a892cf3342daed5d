// Package naming maps between stored component filenames and component names.
//
// Files are named <name>-<version>.md. Two rules coexist:
//   - listing splits the stem on the FIRST hyphen (a-b-1.0.md lists as "a");
//   - upload validation splits on the LAST hyphen (a-b-1.0.md validates as
//     name "a-b", version "1.0").
//
// Both rules are kept as-is; callers that need to warn about the mismatch can
// compare DeriveName with the name returned by ValidateAndExtract.
package naming

import (
	"fmt"
	"strings"

	"github.com/starford/vision2ui/internal/apperr"
)

const (
	// Ext is the required extension for component documents.
	Ext = ".md"
	// Sep separates the component name from its version.
	Sep = "-"
)

// Stem returns filename without a trailing ".md". The match is case-sensitive.
func Stem(filename string) string {
	return strings.TrimSuffix(filename, Ext)
}

// DeriveName returns the name a stored file is indexed under: the stem up to
// the first hyphen, or the whole stem when it has none.
func DeriveName(filename string) string {
	stem := Stem(filename)
	if i := strings.Index(stem, Sep); i >= 0 {
		return stem[:i]
	}
	return stem
}

// Version returns the text after the last hyphen of the stem, or "" when the
// stem has no hyphen.
func Version(filename string) string {
	stem := Stem(filename)
	if i := strings.LastIndex(stem, Sep); i >= 0 {
		return stem[i+1:]
	}
	return ""
}

// ValidateAndExtract checks an upload filename and splits it into name and
// version on the last hyphen.
func ValidateAndExtract(filename string) (name, version string, err error) {
	if !strings.HasSuffix(filename, Ext) {
		return "", "", fmt.Errorf("%w: filename must have %s extension", apperr.ErrInvalidFormat, Ext)
	}
	stem := Stem(filename)
	i := strings.LastIndex(stem, Sep)
	if i < 0 {
		return "", "", fmt.Errorf("%w: filename must be in format <component_name>-<version>.md", apperr.ErrInvalidFormat)
	}
	return stem[:i], stem[i+1:], nil
}
