// Package fsystest provides an in-memory fsys.Lister for tests.
package fsystest

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/hayeah/foldermap/internal/fsys"
)

// MemLister is an in-memory fsys.Lister, used to inject listing failures
// that are awkward to reproduce on a real filesystem.
type MemLister struct {
	mu       sync.Mutex
	children map[string][]fsys.Entry
	failures map[string]error
}

// NewMemLister returns an empty MemLister.
func NewMemLister() *MemLister {
	return &MemLister{
		children: make(map[string][]fsys.Entry),
		failures: make(map[string]error),
	}
}

// AddDir registers dir (and its ancestors up to the first registered one) as
// a directory.
func (m *MemLister) AddDir(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(filepath.Clean(dir), true)
}

// AddFile registers a file and its parent directories.
func (m *MemLister) AddFile(file string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addLocked(filepath.Clean(file), false)
}

func (m *MemLister) addLocked(path string, isDir bool) {
	if isDir {
		if _, ok := m.children[path]; ok {
			return
		}
		m.children[path] = nil
	}
	parent := filepath.Dir(path)
	if parent == path {
		return
	}
	m.addLocked(parent, true)
	name := filepath.Base(path)
	for _, e := range m.children[parent] {
		if e.Name == name {
			return
		}
	}
	m.children[parent] = append(m.children[parent], fsys.Entry{Name: name, IsDir: isDir})
}

// Fail makes every listing of dir return err, classified like a real failure.
func (m *MemLister) Fail(dir string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[filepath.Clean(dir)] = err
}

// ListDirectory implements fsys.Lister.
func (m *MemLister) ListDirectory(path string) ([]fsys.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err, ok := m.failures[path]; ok {
		return nil, fsys.Classify(path, &fs.PathError{Op: "open", Path: path, Err: err})
	}
	entries, ok := m.children[path]
	if !ok {
		return nil, fsys.Classify(path, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist})
	}
	out := make([]fsys.Entry, len(entries))
	copy(out, entries)
	return out, nil
}
