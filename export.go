package foldermap

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hayeah/foldermap/internal/fsys"
	"github.com/hayeah/foldermap/render"
)

const (
	reportTitle = "ESTRUCTURA DE CARPETAS"
	dateLayout  = "02/01/2006 15:04:05"
)

// ExportError is returned when a report cannot be produced or written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// ExportResult is delivered once per asynchronous export.
type ExportResult struct {
	Path string
	Err  error
}

// Header is the block written above the tree.
func Header(root string, t time.Time) string {
	var b strings.Builder
	b.WriteString(reportTitle + "\n")
	b.WriteString(strings.Repeat("=", 25) + "\n")
	b.WriteString("Ruta: " + root + "\n")
	b.WriteString("Fecha: " + t.Format(dateLayout) + "\n\n")
	return b.String()
}

// DefaultDestination is <root>/<basename>-estructura.txt.
func DefaultDestination(root string) string {
	return filepath.Join(root, filepath.Base(root)+"-estructura.txt")
}

// Exporter writes reports to disk.
type Exporter struct {
	Renderer *render.Renderer
	Now      func() time.Time
}

// NewExporter returns an Exporter using the wall clock.
func NewExporter(r *render.Renderer) *Exporter {
	return &Exporter{Renderer: r, Now: time.Now}
}

// Report returns the header followed by the rendered tree.
func (e *Exporter) Report(root string, include render.Predicate) (string, error) {
	tree, err := e.Renderer.Render(root, include)
	if err != nil {
		return "", err
	}
	return Header(root, e.Now()) + tree, nil
}

// Export writes the report for root to dest and returns dest.
func (e *Exporter) Export(root string, include render.Predicate, dest string) (string, error) {
	content, err := e.Report(root, include)
	if err != nil {
		return "", &ExportError{Path: dest, Err: err}
	}
	if err := fsys.WriteTextFile(dest, content); err != nil {
		return "", &ExportError{Path: dest, Err: err}
	}
	return dest, nil
}
