// Package selection matches root-relative paths against user patterns.
//
// # Pattern Syntax
//
//  1. Fuzzy matching (default): "foo" matches any path with one segment
//     whose characters fuzzy match "foo". A pattern holding '/' is matched
//     against the whole path instead.
//  2. Glob: any pattern containing '*' or '?', matched with doublestar.
//     A glob without '/' is also tried against the base name, so "*.log"
//     matches "logs/app.log".
//  3. Regular expression: prefix "/", e.g. "/\.tmp$".
//  4. Exact path: prefix "=", e.g. "=docs/draft.md".
//  5. Negation: prefix "!", e.g. "!vendor".
//  6. Compound (AND): "cmd|/\.go$".
//  7. Union (OR): "build;dist".
//
// Paths are slash-separated and relative to the session root; a leading "./"
// in a pattern is ignored and "../" is rejected.
package selection

import (
	"bufio"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
)

// Matcher reports whether a relative path matches.
type Matcher interface {
	Match(relPath string) bool
}

// ExactPathMatcher matches one path.
type ExactPathMatcher struct {
	Path string
}

func (m ExactPathMatcher) Match(relPath string) bool {
	return relPath == m.Path
}

// FuzzyMatcher uses sahilm/fuzzy subsequence matching within a single path
// segment, so a match never spans a '/'.
type FuzzyMatcher struct {
	Pattern string
}

func (m FuzzyMatcher) Match(relPath string) bool {
	if m.Pattern == "" {
		return true
	}
	if strings.Contains(m.Pattern, "/") {
		return len(fuzzy.Find(m.Pattern, []string{relPath})) > 0
	}
	return len(fuzzy.Find(m.Pattern, strings.Split(relPath, "/"))) > 0
}

// GlobMatcher matches doublestar globs.
type GlobMatcher struct {
	Pattern string
}

func NewGlobMatcher(pattern string) (GlobMatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return GlobMatcher{}, fmt.Errorf("invalid glob pattern '%s'", pattern)
	}
	return GlobMatcher{Pattern: pattern}, nil
}

func (m GlobMatcher) Match(relPath string) bool {
	if ok, _ := doublestar.Match(m.Pattern, relPath); ok {
		return true
	}
	if !strings.Contains(m.Pattern, "/") {
		ok, _ := doublestar.Match(m.Pattern, path.Base(relPath))
		return ok
	}
	return false
}

// RegexMatcher matches a compiled regular expression.
type RegexMatcher struct {
	Pattern string
	regex   *regexp.Regexp
}

func NewRegexMatcher(pattern string) (*RegexMatcher, error) {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %v", err)
	}
	return &RegexMatcher{Pattern: pattern, regex: regex}, nil
}

func (m *RegexMatcher) Match(relPath string) bool {
	return m.regex.MatchString(relPath)
}

// NegationMatcher inverts the wrapped matcher.
type NegationMatcher struct {
	Wrapped Matcher
}

func (m NegationMatcher) Match(relPath string) bool {
	return !m.Wrapped.Match(relPath)
}

// CompoundMatcher requires every matcher to match (logical AND).
type CompoundMatcher struct {
	Matchers []Matcher
}

func (m CompoundMatcher) Match(relPath string) bool {
	for _, sub := range m.Matchers {
		if !sub.Match(relPath) {
			return false
		}
	}
	return true
}

// UnionMatcher requires any matcher to match (logical OR).
type UnionMatcher struct {
	Matchers []Matcher
}

func (m UnionMatcher) Match(relPath string) bool {
	for _, sub := range m.Matchers {
		if sub.Match(relPath) {
			return true
		}
	}
	return false
}

// ParseMatcher parses a single pattern string into a Matcher.
func ParseMatcher(pattern string) (Matcher, error) {
	pattern = strings.TrimSpace(pattern)
	if strings.HasPrefix(pattern, "../") {
		return nil, fmt.Errorf("patterns with '../' are not supported")
	}
	pattern = strings.TrimPrefix(pattern, "./")

	// ';' binds loosest
	if strings.Contains(pattern, ";") {
		var subMatchers []Matcher
		for _, part := range strings.Split(pattern, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			matcher, err := ParseMatcher(part)
			if err != nil {
				return nil, fmt.Errorf("in union pattern part '%s': %v", part, err)
			}
			subMatchers = append(subMatchers, matcher)
		}
		switch len(subMatchers) {
		case 0:
			return nil, fmt.Errorf("union pattern contains no valid patterns")
		case 1:
			return subMatchers[0], nil
		}
		return UnionMatcher{Matchers: subMatchers}, nil
	}

	if strings.HasPrefix(pattern, "=") {
		return ExactPathMatcher{Path: strings.TrimPrefix(pattern[1:], "./")}, nil
	}

	if strings.Contains(pattern, "|") {
		parts := strings.Split(pattern, "|")
		subMatchers := make([]Matcher, 0, len(parts))
		for _, part := range parts {
			matcher, err := ParseMatcher(part)
			if err != nil {
				return nil, fmt.Errorf("in pattern part '%s': %v", part, err)
			}
			subMatchers = append(subMatchers, matcher)
		}
		return CompoundMatcher{Matchers: subMatchers}, nil
	}

	if strings.HasPrefix(pattern, "!") {
		pattern = pattern[1:]
		if pattern == "" {
			return nil, fmt.Errorf("empty negation pattern '!' is not valid")
		}
		matcher, err := ParseMatcher(pattern)
		if err != nil {
			return nil, err
		}
		return NegationMatcher{Wrapped: matcher}, nil
	}

	if strings.HasPrefix(pattern, "/") {
		return NewRegexMatcher(pattern[1:])
	}

	if strings.ContainsAny(pattern, "*?") {
		return NewGlobMatcher(pattern)
	}

	return FuzzyMatcher{Pattern: pattern}, nil
}

// ParseMatchersFromString parses one pattern per line, skipping blank lines
// and lines starting with '#'.
func ParseMatchersFromString(input string) ([]Matcher, error) {
	var matchers []Matcher
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		matcher, err := ParseMatcher(line)
		if err != nil {
			return nil, fmt.Errorf("error parsing pattern '%s': %w", line, err)
		}
		matchers = append(matchers, matcher)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning input: %w", err)
	}
	return matchers, nil
}
