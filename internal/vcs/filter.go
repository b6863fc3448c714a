package vcs

import (
	"path"
	"strings"
)

// FileFilter decides which paths are analyzed as sources and which are
// known test files. Matching is done on slash-separated repository paths.
type FileFilter struct {
	// Extensions allow-lists source file extensions, e.g. ".py".
	// An empty list accepts every extension.
	Extensions []string
	// TestPatterns are path.Match patterns applied to the base name.
	TestPatterns []string
	// TestDirs mark every file below a directory with one of these names as a test.
	TestDirs []string
}

func (f FileFilter) hasExtension(p string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(path.Ext(p))
	for _, allowed := range f.Extensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// IsTest reports whether p follows the test naming convention.
func (f FileFilter) IsTest(p string) bool {
	if !f.hasExtension(p) {
		return false
	}

	base := path.Base(p)
	for _, pattern := range f.TestPatterns {
		if ok, err := path.Match(pattern, base); err == nil && ok {
			return true
		}
	}

	dirs := strings.Split(path.Dir(p), "/")
	for _, dir := range dirs {
		for _, testDir := range f.TestDirs {
			if dir == testDir {
				return true
			}
		}
	}
	return false
}

// IsSource reports whether p should be analyzed for changes.
func (f FileFilter) IsSource(p string) bool {
	return f.hasExtension(p) && !f.IsTest(p)
}
