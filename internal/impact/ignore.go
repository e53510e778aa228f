package impact

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Ignore drops changed paths matching any of a set of glob patterns.
//
// Patterns use path.Match syntax against workspace-relative slash paths.
// A pattern without a slash matches any single path element, so "*.md"
// ignores markdown files at every depth. A pattern with a slash matches
// the relative path or one of its parent directories, so "crates/legacy"
// ignores everything below that directory.
type Ignore struct {
	root     string
	patterns []string
}

// NewIgnore validates patterns. It returns nil when there are none.
func NewIgnore(root string, patterns []string) (*Ignore, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		p = strings.Trim(filepath.ToSlash(strings.TrimSpace(p)), "/")
		if p == "" {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		cleaned = append(cleaned, p)
	}
	return &Ignore{root: filepath.Clean(root), patterns: cleaned}, nil
}

// Match reports whether the absolute path is ignored. Paths outside the
// root never match.
func (ig *Ignore) Match(abs string) bool {
	if ig == nil || len(ig.patterns) == 0 {
		return false
	}

	rel, err := filepath.Rel(ig.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	rel = filepath.ToSlash(rel)
	elems := strings.Split(rel, "/")

	for _, p := range ig.patterns {
		if strings.Contains(p, "/") {
			for i := len(elems); i > 0; i-- {
				if ok, _ := path.Match(p, strings.Join(elems[:i], "/")); ok {
					return true
				}
			}
			continue
		}
		for _, e := range elems {
			if ok, _ := path.Match(p, e); ok {
				return true
			}
		}
	}
	return false
}
