package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/hayeah/foldermap/internal/selection"
)

// Ignore answers gitignore questions for paths under one root.
type Ignore struct {
	matcher  gitignore.Matcher
	rootPath string
}

// NewIgnore reads every .gitignore below rootPath.
func NewIgnore(rootPath string) (*Ignore, error) {
	fs := osfs.New(rootPath)
	patterns, err := gitignore.ReadPatterns(fs, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	return &Ignore{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// Match reports whether the absolute path is ignored. The .git directory is
// always ignored; the root and paths outside it never are.
func (ig *Ignore) Match(path string, isDir bool) bool {
	if isDir && filepath.Base(path) == ".git" {
		return true
	}

	relPath, ok := selection.RelPath(ig.rootPath, path)
	if !ok {
		return false
	}

	parts := strings.Split(relPath, "/")
	return ig.matcher.Match(parts, isDir)
}
