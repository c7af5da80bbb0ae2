package selection

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Ignorer reports paths excluded by an external rule source such as .gitignore.
type Ignorer interface {
	Match(path string, isDir bool) bool
}

// Rules decides which absolute paths start out excluded under one root.
type Rules struct {
	root     string
	matchers []Matcher
	ignorer  Ignorer
}

// NewRules parses patterns for paths under root. ig may be nil.
func NewRules(root string, patterns []string, ig Ignorer) (*Rules, error) {
	r := &Rules{root: root, ignorer: ig}
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		m, err := ParseMatcher(p)
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", p, err)
		}
		r.matchers = append(r.matchers, m)
	}
	return r, nil
}

// AddMatchers appends already parsed exclude matchers.
func (r *Rules) AddMatchers(ms ...Matcher) {
	r.matchers = append(r.matchers, ms...)
}

// Empty reports whether no rule can ever exclude a path.
func (r *Rules) Empty() bool {
	return r == nil || (len(r.matchers) == 0 && r.ignorer == nil)
}

// Excluded reports whether path matches an exclude pattern or is ignored.
// Paths outside the root never match.
func (r *Rules) Excluded(path string, isDir bool) bool {
	if r.Empty() {
		return false
	}
	rel, ok := r.Rel(path)
	if !ok {
		return false
	}
	for _, m := range r.matchers {
		if m.Match(rel) {
			return true
		}
	}
	return r.ignorer != nil && r.ignorer.Match(path, isDir)
}

// Rel returns path relative to the root in slash form.
func (r *Rules) Rel(path string) (string, bool) {
	return RelPath(r.root, path)
}

// RelPath returns path relative to root in slash form, and false when path
// is the root itself or lies outside it.
func RelPath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
