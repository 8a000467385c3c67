package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ExpandExports turns export paths and glob patterns into a deduplicated
// list of files. Matches of one pattern are sorted; patterns keep the order
// they were given in. A pattern with no match is kept as a literal path so
// that opening it later reports a useful error. Directories are skipped.
func ExpandExports(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		result = append(result, path)
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			add(pattern)
			continue
		}

		sort.Strings(matches)
		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.IsDir() {
				continue
			}
			add(match)
		}
	}

	return result, nil
}
