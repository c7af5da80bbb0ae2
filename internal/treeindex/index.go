// Package treeindex tracks the entries of one browsing session: which paths
// have been discovered, and which are included in the report.
package treeindex

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/hayeah/foldermap/internal/fsys"
)

var (
	ErrUnknownNode  = errors.New("unknown node")
	ErrNotDirectory = errors.New("not a directory")
)

// Excluder marks paths that start out excluded regardless of inheritance.
type Excluder interface {
	Excluded(path string, isDir bool) bool
}

// Options configures an Index.
type Options struct {
	Lister fsys.Lister
	Mode   InclusionMode
	Rules  Excluder // optional
}

// Index owns every Node of a session. It is not safe for concurrent use;
// hand a Snapshot to other goroutines instead.
type Index struct {
	lister fsys.Lister
	mode   InclusionMode
	rules  Excluder

	root     string
	nodes    map[NodeID]*Node
	byPath   map[string]NodeID
	parent   map[NodeID]NodeID
	children map[NodeID][]NodeID
	roots    []NodeID
}

// New returns an empty index.
func New(opts Options) *Index {
	if opts.Lister == nil {
		opts.Lister = fsys.OSLister{}
	}
	ix := &Index{
		lister: opts.Lister,
		mode:   opts.Mode,
		rules:  opts.Rules,
	}
	ix.reset("")
	return ix
}

func (ix *Index) reset(root string) {
	ix.root = root
	ix.nodes = make(map[NodeID]*Node)
	ix.byPath = make(map[string]NodeID)
	ix.parent = make(map[NodeID]NodeID)
	ix.children = make(map[NodeID][]NodeID)
	ix.roots = nil
}

// SetRules replaces the exclusion rules used for nodes created from now on.
func (ix *Index) SetRules(rules Excluder) {
	ix.rules = rules
}

// Root returns the path given to the last LoadRoot.
func (ix *Index) Root() string { return ix.root }

// Mode returns the inclusion mode.
func (ix *Index) Mode() InclusionMode { return ix.mode }

// Len returns the number of tracked nodes.
func (ix *Index) Len() int { return len(ix.nodes) }

// LoadRoot discards the current session and creates one node per immediate
// child of path. On failure the index is left empty with no root.
func (ix *Index) LoadRoot(path string) ([]Node, error) {
	ix.reset(filepath.Clean(path))

	ids, err := ix.populate("", ix.root, true)
	if err != nil {
		ix.reset("")
		return nil, err
	}
	ix.roots = ids
	return ix.copies(ids), nil
}

// Discover lists the children of an undiscovered directory. Calling it again
// returns the children (and listing error) recorded the first time.
func (ix *Index) Discover(id NodeID) ([]Node, error) {
	n, ok := ix.nodes[id]
	if !ok {
		return nil, fmt.Errorf("discover %s: %w", id, ErrUnknownNode)
	}
	if !n.IsDir() {
		return nil, fmt.Errorf("discover %s: %w", n.Path, ErrNotDirectory)
	}
	if n.Discovered {
		return ix.copies(ix.children[id]), n.Err
	}

	ids, err := ix.populate(id, n.Path, n.Included)
	n.Discovered = true
	if err != nil {
		n.Err = err
		ix.children[id] = []NodeID{}
		return nil, err
	}
	ix.children[id] = ids
	return ix.copies(ids), nil
}

// populate creates nodes for the sorted listing of dir.
func (ix *Index) populate(parent NodeID, dir string, parentIncluded bool) ([]NodeID, error) {
	entries, err := ix.lister.ListDirectory(dir)
	if err != nil {
		return nil, err
	}
	fsys.SortEntries(entries)

	ids := make([]NodeID, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name)
		if existing, ok := ix.byPath[path]; ok {
			ids = append(ids, existing)
			continue
		}

		n := &Node{
			ID:         newNodeID(),
			Path:       path,
			Name:       e.Name,
			Kind:       File,
			Included:   ix.defaultIncluded(path, e.IsDir, parentIncluded),
			Discovered: !e.IsDir,
		}
		if e.IsDir {
			n.Kind = Directory
		}

		ix.nodes[n.ID] = n
		ix.byPath[path] = n.ID
		if parent != "" {
			ix.parent[n.ID] = parent
		}
		ids = append(ids, n.ID)
	}
	return ids, nil
}

func (ix *Index) defaultIncluded(path string, isDir bool, parentIncluded bool) bool {
	if ix.rules != nil && ix.rules.Excluded(path, isDir) {
		return false
	}
	if ix.mode == FailOpen {
		return true
	}
	return parentIncluded
}

// SetIncluded sets a node's flag. With propagate, every discovered
// descendant of a directory gets the same flag.
func (ix *Index) SetIncluded(id NodeID, value bool, propagate bool) error {
	n, ok := ix.nodes[id]
	if !ok {
		return fmt.Errorf("set included %s: %w", id, ErrUnknownNode)
	}
	n.Included = value
	if propagate {
		ix.propagate(id, value)
	}
	return nil
}

func (ix *Index) propagate(id NodeID, value bool) {
	for _, child := range ix.children[id] {
		ix.nodes[child].Included = value
		ix.propagate(child, value)
	}
}

// Toggle inverts one node's flag and returns the new value.
func (ix *Index) Toggle(id NodeID) (bool, error) {
	n, ok := ix.nodes[id]
	if !ok {
		return false, fmt.Errorf("toggle %s: %w", id, ErrUnknownNode)
	}
	n.Included = !n.Included
	return n.Included, nil
}

// SetAll sets every top-level node, optionally propagating.
func (ix *Index) SetAll(value bool, propagate bool) {
	for _, id := range ix.roots {
		ix.nodes[id].Included = value
		if propagate {
			ix.propagate(id, value)
		}
	}
}

// Node returns a copy of the node with id.
func (ix *Index) Node(id NodeID) (Node, bool) {
	n, ok := ix.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// NodeByPath returns a copy of the node tracking path.
func (ix *Index) NodeByPath(path string) (Node, bool) {
	id, ok := ix.byPath[filepath.Clean(path)]
	if !ok {
		return Node{}, false
	}
	return ix.Node(id)
}

// Parent returns the parent of id; top-level nodes have none.
func (ix *Index) Parent(id NodeID) (NodeID, bool) {
	p, ok := ix.parent[id]
	return p, ok
}

// Children returns the children of a discovered directory. ok is false when
// the node is unknown or not yet discovered.
func (ix *Index) Children(id NodeID) (nodes []Node, ok bool) {
	ids, ok := ix.children[id]
	if !ok {
		return nil, false
	}
	return ix.copies(ids), true
}

// Roots returns the top-level nodes in canonical order.
func (ix *Index) Roots() []Node {
	return ix.copies(ix.roots)
}

// Walk visits nodes depth first in canonical order. fn returns whether to
// descend into a discovered directory.
func (ix *Index) Walk(fn func(n Node, depth int) bool) {
	var walk func(ids []NodeID, depth int)
	walk = func(ids []NodeID, depth int) {
		for _, id := range ids {
			n := ix.nodes[id]
			if fn(*n, depth) && n.IsDir() {
				walk(ix.children[id], depth+1)
			}
		}
	}
	walk(ix.roots, 0)
}

func (ix *Index) copies(ids []NodeID) []Node {
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, *ix.nodes[id])
	}
	return out
}

// Snapshot freezes the current flags into a predicate that is safe to use
// from another goroutine while the index keeps changing.
//
// A tracked path answers with its own flag. An untracked path is excluded
// when the rules exclude it; otherwise FailOpen includes it and Inherit uses
// the flag of its nearest tracked ancestor.
func (ix *Index) Snapshot() func(path string, isDir bool) bool {
	flags := make(map[string]bool, len(ix.nodes))
	for _, n := range ix.nodes {
		flags[n.Path] = n.Included
	}
	root, mode, rules := ix.root, ix.mode, ix.rules

	return func(path string, isDir bool) bool {
		path = filepath.Clean(path)
		if v, ok := flags[path]; ok {
			return v
		}
		if rules != nil && rules.Excluded(path, isDir) {
			return false
		}
		if mode == FailOpen {
			return true
		}
		for p := filepath.Dir(path); p != root; {
			if v, ok := flags[p]; ok {
				return v
			}
			next := filepath.Dir(p)
			if next == p {
				break
			}
			p = next
		}
		return true
	}
}
