package treeindex

import (
	"github.com/google/uuid"
)

// NodeID is an opaque handle, unique within one index.
type NodeID string

func newNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// Kind distinguishes files from directories.
type Kind int

const (
	File Kind = iota
	Directory
)

func (k Kind) String() string {
	if k == Directory {
		return "dir"
	}
	return "file"
}

// Node is one tracked filesystem entry.
type Node struct {
	ID         NodeID
	Path       string // absolute
	Name       string
	Kind       Kind
	Included   bool
	Discovered bool  // always true for files
	Err        error // listing failure recorded by Discover
}

// IsDir reports whether the node is a directory.
func (n Node) IsDir() bool {
	return n.Kind == Directory
}

// InclusionMode decides what an untracked or newly discovered path inherits.
type InclusionMode int

const (
	// Inherit takes the flag of the nearest tracked ancestor.
	Inherit InclusionMode = iota
	// FailOpen treats anything without its own record as included.
	FailOpen
)

func (m InclusionMode) String() string {
	if m == FailOpen {
		return "fail-open"
	}
	return "inherit"
}

// ParseInclusionMode accepts "inherit" and "fail-open"; empty means Inherit.
func ParseInclusionMode(s string) (InclusionMode, bool) {
	switch s {
	case "", "inherit":
		return Inherit, true
	case "fail-open", "failopen":
		return FailOpen, true
	}
	return Inherit, false
}
