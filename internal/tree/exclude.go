package tree

import (
	"path/filepath"
	"strings"
)

func shouldExclude(relPath string, isDir bool, exclusions []string) bool {
	for _, pattern := range exclusions {
		// Directory patterns (trailing /) match any path component
		if strings.HasSuffix(pattern, "/") {
			dirPattern := strings.TrimSuffix(pattern, "/")
			parts := strings.Split(relPath, string(filepath.Separator))
			if !isDir {
				// the last component is the file itself
				parts = parts[:len(parts)-1]
			}
			for _, part := range parts {
				if part == dirPattern {
					return true
				}
				if matched, _ := filepath.Match(dirPattern, part); matched {
					return true
				}
			}
			continue
		}

		if matched, err := filepath.Match(pattern, filepath.Base(relPath)); err == nil && matched {
			return true
		}
		if strings.Contains(pattern, "/") {
			if matched, err := filepath.Match(pattern, filepath.ToSlash(relPath)); err == nil && matched {
				return true
			}
		}
	}
	return false
}
