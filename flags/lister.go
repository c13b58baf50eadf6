package flags

import "path/filepath"

// DirLister expands a glob pattern into matching paths.
type DirLister interface {
	Glob(pattern string) ([]string, error)
}

// GlobLister expands patterns against the real filesystem.
// Matches come back in lexical order; unreadable directories are skipped.
type GlobLister struct{}

// Glob implements DirLister.
func (GlobLister) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// StaticLister returns fixed matches per pattern. Unknown patterns match nothing.
type StaticLister map[string][]string

// Glob implements DirLister.
func (s StaticLister) Glob(pattern string) ([]string, error) {
	return append([]string(nil), s[pattern]...), nil
}
