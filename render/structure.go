// Package render draws the included part of a directory tree as text.
package render

import (
	"path/filepath"
	"strings"

	"github.com/hayeah/foldermap/internal/fsys"
)

const (
	middleItem   = "├── "
	lastItem     = "└── "
	continueItem = "│   "
	emptySpace   = "    "

	DirMarker  = "📁 "
	FileMarker = "📄 "
)

// Predicate reports whether a path belongs in the output.
type Predicate func(path string, isDir bool) bool

// IncludeAll is the predicate of a session where nothing was excluded.
func IncludeAll(string, bool) bool { return true }

// Renderer lists directories through a Lister at render time, so the output
// always reflects the disk rather than what a session has discovered.
type Renderer struct {
	Lister fsys.Lister
}

// NewRenderer returns a Renderer reading through lister.
func NewRenderer(lister fsys.Lister) *Renderer {
	if lister == nil {
		lister = fsys.OSLister{}
	}
	return &Renderer{Lister: lister}
}

// Render returns the tree below root, one entry per line, without a line for
// root itself. A subdirectory that cannot be listed becomes a single
// "[Error: ...]" line in place of its children. Failing to list root is
// returned as an error.
func (r *Renderer) Render(root string, include Predicate) (string, error) {
	if include == nil {
		include = IncludeAll
	}
	var lines []string
	if err := r.renderDir(&lines, root, "", include); err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (r *Renderer) renderDir(lines *[]string, dir string, prefix string, include Predicate) error {
	entries, err := r.Lister.ListDirectory(dir)
	if err != nil {
		return err
	}
	fsys.SortEntries(entries)

	kept := entries[:0]
	for _, e := range entries {
		if include(filepath.Join(dir, e.Name), e.IsDir) {
			kept = append(kept, e)
		}
	}

	for i, e := range kept {
		isLast := i == len(kept)-1
		connector, next := middleItem, continueItem
		if isLast {
			connector, next = lastItem, emptySpace
		}

		marker := FileMarker
		if e.IsDir {
			marker = DirMarker
		}
		*lines = append(*lines, prefix+connector+marker+e.Name)

		if e.IsDir {
			childPrefix := prefix + next
			if err := r.renderDir(lines, filepath.Join(dir, e.Name), childPrefix, include); err != nil {
				*lines = append(*lines, ErrorLine(childPrefix, err))
			}
		}
	}
	return nil
}

// ErrorLine formats the leaf that replaces an unreadable directory's children.
func ErrorLine(prefix string, err error) string {
	return prefix + "[Error: " + err.Error() + "]"
}
