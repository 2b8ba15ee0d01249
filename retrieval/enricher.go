package retrieval

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMaxFileChars bounds how much raw content of one file enters the prompt.
const DefaultMaxFileChars = 2000

const truncationMarker = "\n\n... (content truncated) ..."

// ContentEnricher reads bounded file content for prompt inclusion. It never
// returns an error: missing files and read failures become inline marker
// strings so a single unreadable file cannot fail the whole query.
type ContentEnricher struct {
	ProjectRoot string
	MaxChars    int
}

// NewContentEnricher creates an enricher rooted at projectRoot. A maxChars
// of zero falls back to the default bound.
func NewContentEnricher(projectRoot string, maxChars int) *ContentEnricher {
	if maxChars <= 0 {
		maxChars = DefaultMaxFileChars
	}
	return &ContentEnricher{ProjectRoot: projectRoot, MaxChars: maxChars}
}

// Enrich resolves relativePath against the project root and returns its
// content, truncated to MaxChars characters with a marker when longer.
// Paths escaping the project root are treated as not found.
func (enricher *ContentEnricher) Enrich(relativePath string) string {
	resolved := filepath.Join(enricher.ProjectRoot, filepath.FromSlash(relativePath))

	if !enricher.contained(resolved) {
		return fmt.Sprintf("File not found: %s", relativePath)
	}

	if _, err := os.Stat(resolved); err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("File not found: %s", relativePath)
		}
		return fmt.Sprintf("Error reading file %s: %s", relativePath, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return fmt.Sprintf("Error reading file %s: %s", relativePath, err)
	}

	content := string(data)
	runes := []rune(content)
	if len(runes) > enricher.MaxChars {
		content = string(runes[:enricher.MaxChars]) + truncationMarker
	}
	return content
}

// contained reports whether the resolved path stays beneath the project root.
func (enricher *ContentEnricher) contained(resolved string) bool {
	root, err := filepath.Abs(enricher.ProjectRoot)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
