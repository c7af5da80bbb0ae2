// Package fsys is the filesystem boundary: directory listing with file/dir
// classification, plain text writes, and the error taxonomy the rest of the
// program reasons about.
package fsys

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Entry is one child of a listed directory.
type Entry struct {
	Name  string
	IsDir bool
}

// Lister lists the immediate children of a directory.
type Lister interface {
	ListDirectory(path string) ([]Entry, error)
}

// OSLister lists directories on the local filesystem.
type OSLister struct{}

// ListDirectory returns the entries of path in directory order. Symlinks are
// classified by their target; a dangling link is reported as a file.
func (OSLister) ListDirectory(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, Classify(path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, d := range dirEntries {
		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			fi, err := os.Stat(filepath.Join(path, d.Name()))
			isDir = err == nil && fi.IsDir()
		}
		entries = append(entries, Entry{Name: d.Name(), IsDir: isDir})
	}
	return entries, nil
}

// WriteTextFile writes content to path as UTF-8 text, replacing any existing file.
func WriteTextFile(path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// AccessError reports a directory that could not be read.
type AccessError struct {
	Path string
	Err  error
}

func (e *AccessError) Error() string { return e.Err.Error() }
func (e *AccessError) Unwrap() error { return e.Err }

// NotFoundError reports a path that vanished between discovery and use.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string { return e.Err.Error() }
func (e *NotFoundError) Unwrap() error { return e.Err }

// IOError reports any other read or write failure.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return e.Err.Error() }
func (e *IOError) Unwrap() error { return e.Err }

// Classify wraps err in the taxonomy type matching its cause.
func Classify(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrPermission):
		return &AccessError{Path: path, Err: err}
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Path: path, Err: err}
	default:
		return &IOError{Path: path, Err: err}
	}
}

// IsRecoverable reports whether err should be contained locally (rendered
// inline or shown as a status) rather than treated as a write failure.
func IsRecoverable(err error) bool {
	var accessErr *AccessError
	var notFoundErr *NotFoundError
	return errors.As(err, &accessErr) || errors.As(err, &notFoundErr)
}
