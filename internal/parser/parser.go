// Package parser extracts descriptive fields from component markdown.
//
// Component documents have no enforced schema. Frontmatter is optional and
// malformed frontmatter is never an error: the whole document is then body.
package parser

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
)

// Result holds the output of parsing a component document.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Title       string
	Description string
	Tags        []string
}

// Parse extracts frontmatter, title, description, and tags from raw markdown.
func Parse(data []byte) *Result {
	fm, body := splitFrontmatter(data)
	return &Result{
		Frontmatter: fm,
		Body:        body,
		Title:       deriveTitle(fm, body),
		Description: stringField(fm, "description"),
		Tags:        extractTags(fm),
	}
}

func splitFrontmatter(data []byte) (map[string]any, string) {
	var fm map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, string(data)
	}
	if len(fm) == 0 {
		fm = nil
	}
	return fm, strings.TrimLeft(string(rest), "\r\n")
}

func stringField(fm map[string]any, key string) string {
	if s, ok := fm[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// extractTags reads "tags" as a YAML list or a comma-separated string.
func extractTags(fm map[string]any) []string {
	var raw []string
	switch v := fm["tags"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case string:
		raw = strings.Split(v, ",")
	}

	seen := make(map[string]struct{}, len(raw))
	out := []string{}
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// deriveTitle returns the frontmatter "title" if present, otherwise the first
// H1 heading, otherwise empty string.
func deriveTitle(fm map[string]any, body string) string {
	if t := stringField(fm, "title"); t != "" {
		return t
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
