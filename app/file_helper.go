package app

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// pathMatcher applies gitignore-style include and exclude patterns to paths
// relative to one root.
type pathMatcher struct {
	include   *ignore.GitIgnore
	exclude   *ignore.GitIgnore
	gitignore *ignore.GitIgnore
}

func newPathMatcher(root string, includePatterns, excludePatterns []string, respectGitignore bool) *pathMatcher {
	m := &pathMatcher{}
	if len(includePatterns) > 0 {
		m.include = ignore.CompileIgnoreLines(includePatterns...)
	}
	if len(excludePatterns) > 0 {
		m.exclude = ignore.CompileIgnoreLines(excludePatterns...)
	}
	if respectGitignore {
		// A missing or unreadable .gitignore ignores nothing.
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			m.gitignore = gi
		}
	}
	return m
}

// skipped reports whether rel is excluded or gitignored
func (m *pathMatcher) skipped(rel string) bool {
	if m.exclude != nil && m.exclude.MatchesPath(rel) {
		return true
	}
	return m.gitignore != nil && m.gitignore.MatchesPath(rel)
}

// skippedDir reports whether the directory rel is excluded or gitignored.
// Patterns with a trailing slash only match directory paths.
func (m *pathMatcher) skippedDir(rel string) bool {
	return m.skipped(rel) || m.skipped(rel+"/")
}

// DirFilter prunes the directories below one root that CollectPHPFiles
// would skip, so file watchers agree with the analyzed file set.
type DirFilter struct {
	root    string
	matcher *pathMatcher
}

// NewDirFilter compiles excludePatterns and, when asked, root/.gitignore
func NewDirFilter(root string, excludePatterns []string, respectGitignore bool) *DirFilter {
	return &DirFilter{root: root, matcher: newPathMatcher(root, nil, excludePatterns, respectGitignore)}
}

// Skipped reports whether dir, a path below the filter's root, is excluded
func (f *DirFilter) Skipped(dir string) bool {
	rel, err := filepath.Rel(f.root, dir)
	if err != nil || rel == "." {
		return false
	}
	return f.matcher.skippedDir(filepath.ToSlash(rel))
}

// included reports whether the file rel is selected by the include patterns
func (m *pathMatcher) included(rel string) bool {
	if m.include == nil {
		return true
	}
	return m.include.MatchesPath(rel) || m.include.MatchesPath(filepath.Base(rel))
}

// CollectPHPFiles collects PHP files from paths. Directories are walked
// (recursively when asked) and filtered by gitignore-style include and
// exclude patterns relative to the directory; files named directly are
// kept when they are PHP files and not excluded.
func (h *FileHelper) CollectPHPFiles(paths []string, recursive bool, includePatterns, excludePatterns []string, respectGitignore bool) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			m := newPathMatcher(filepath.Dir(path), nil, excludePatterns, false)
			if h.isPHPFile(path) && !m.skipped(filepath.Base(path)) {
				add(path)
			}
			continue
		}

		m := newPathMatcher(path, includePatterns, excludePatterns, respectGitignore)
		err = filepath.WalkDir(path, func(filePath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if filePath == path {
				return nil
			}

			rel, err := filepath.Rel(path, filePath)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				// Skip excluded directories early
				if !recursive || m.skippedDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if h.isPHPFile(filePath) && !m.skipped(rel) && m.included(rel) {
				add(filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// IsValidPHPFile checks if a file is a PHP source file
func (h *FileHelper) IsValidPHPFile(path string) bool {
	return h.isPHPFile(path)
}

// FileExists checks if a file exists
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// isPHPFile checks if a file is PHP based on extension
func (h *FileHelper) isPHPFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".php")
}

// ResolveFilePaths resolves file paths, returning existing files directly
// or collecting files from directories
func ResolveFilePaths(
	fileHelper *FileHelper,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
	respectGitignore bool,
) ([]string, error) {
	allFiles := true
	for _, path := range paths {
		exists, err := fileHelper.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	// If all paths are already files, no need to collect again
	if allFiles {
		return paths, nil
	}

	return fileHelper.CollectPHPFiles(paths, recursive, includePatterns, excludePatterns, respectGitignore)
}
