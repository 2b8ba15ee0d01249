package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultIgnoredDirs are directory names never analyzed: interpreter caches
// and build output. Hidden directories are excluded separately.
var defaultIgnoredDirs = []string{
	"__pycache__",
	".cache",
	"node_modules",
	"venv",
	".venv",
	"build",
	"dist",
}

// IsIgnoredDir reports whether a directory name is excluded from analysis.
// Hidden directories (dot-prefixed) are always excluded.
func IsIgnoredDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	lower := strings.ToLower(name)
	for _, pattern := range defaultIgnoredDirs {
		if lower == pattern {
			return true
		}
	}
	return false
}

// GetIgnorePatterns reads extra ignore patterns from a .docai-ignore file in
// the project root. A missing file yields an empty list.
func GetIgnorePatterns(root string) ([]string, error) {
	ignorePath := filepath.Join(root, ".docai-ignore")

	content, err := os.ReadFile(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading .docai-ignore: %w", err)
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsPatternIgnored checks a relative path against .docai-ignore patterns.
func IsPatternIgnored(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if match, _ := filepath.Match(pattern, path); match {
			return true
		}
		if strings.HasSuffix(pattern, "/") && strings.HasPrefix(path, pattern) {
			return true
		}
	}
	return false
}
