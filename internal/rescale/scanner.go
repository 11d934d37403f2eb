package rescale

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultIgnoreFile is read when Config.IgnoreFile is empty.
const DefaultIgnoreFile = ".gitignore"

var htmlExtensions = []string{".html", ".htm"}

// isHTML checks the file extension, case-insensitively.
func isHTML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range htmlExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// fileFilter decides which matched files are processed.
type fileFilter struct {
	gitignore *ignore.GitIgnore
}

// newFileFilter compiles the ignore file. A missing file disables ignore matching.
func newFileFilter(ignoreFile string) *fileFilter {
	if ignoreFile == "" {
		ignoreFile = DefaultIgnoreFile
	}
	gi, err := ignore.CompileIgnoreFile(ignoreFile)
	if err != nil {
		return &fileFilter{}
	}
	return &fileFilter{gitignore: gi}
}

// skip reports whether path should be left alone.
//
// Two layers:
// 1. Extension check: only HTML documents are rewritten
// 2. Gitignore check: only for relative paths, absolute ones (like /tmp/...) are
// outside the project
func (f *fileFilter) skip(path string) bool {
	if !isHTML(path) {
		return true
	}
	if f.gitignore != nil && !filepath.IsAbs(path) && f.gitignore.MatchesPath(path) {
		return true
	}
	return false
}

// expandPatterns expands glob patterns into a deduplicated list of files, in pattern
// order, and tracks what was filtered out.
func expandPatterns(patterns []string, filter *fileFilter) ([]string, ScanStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if filter.skip(match) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesProcessed++
		}
	}

	return files, stats, nil
}

// outputPath places a document under dir, keeping relative input paths intact.
// Absolute inputs keep only their base name. An empty dir rewrites in place.
func outputPath(path, dir string) string {
	if dir == "" {
		return path
	}
	rel := path
	if filepath.IsAbs(path) {
		rel = filepath.Base(path)
	}
	return filepath.Join(dir, rel)
}

// GetRelativePath returns a path relative to the working directory when possible.
func GetRelativePath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
