package foldermap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hayeah/foldermap/ignore"
	"github.com/hayeah/foldermap/internal/fsys"
	"github.com/hayeah/foldermap/internal/metrics"
	"github.com/hayeah/foldermap/internal/selection"
	setpkg "github.com/hayeah/foldermap/internal/set"
	"github.com/hayeah/foldermap/internal/treeindex"
	"github.com/hayeah/foldermap/render"
	"go.uber.org/zap"
)

// ErrNoRoot is returned by operations that need a selected root.
var ErrNoRoot = errors.New("no root selected")

// Session ties one Index to the renderer and exporter. Its methods must be
// called from a single goroutine; ExportAsync hands work off with a snapshot.
type Session struct {
	Config   Config
	Index    *treeindex.Index
	Renderer *render.Renderer
	Exporter *Exporter
	Counter  metrics.Counter
	Logger   *zap.Logger
}

// Root returns the selected root, or "" before SelectRoot succeeds.
func (s *Session) Root() string {
	return s.Index.Root()
}

// Rules builds the exclusion rules configured for root.
func (s *Session) Rules(root string) (*selection.Rules, error) {
	var ig selection.Ignorer
	if s.Config.Tree.Gitignore {
		gi, err := ignore.NewIgnore(root)
		if err != nil {
			return nil, err
		}
		ig = gi
	}
	rules, err := selection.NewRules(root, s.Config.Tree.Exclude, ig)
	if err != nil {
		return nil, err
	}
	for _, file := range s.Config.Tree.ExcludeFrom {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read exclude file: %w", err)
		}
		matchers, err := selection.ParseMatchersFromString(string(data))
		if err != nil {
			return nil, fmt.Errorf("exclude file %s: %w", file, err)
		}
		rules.AddMatchers(matchers...)
	}
	return rules, nil
}

// SelectRoot discards the current session and loads the top level of path.
func (s *Session) SelectRoot(path string) ([]treeindex.Node, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	rules, err := s.Rules(abs)
	if err != nil {
		return nil, err
	}
	s.Index.SetRules(rules)

	nodes, err := s.Index.LoadRoot(abs)
	if err != nil {
		s.Logger.Warn("root unreadable", zap.String("root", abs), zap.Error(err))
		return nil, err
	}
	s.Logger.Info("root loaded",
		zap.String("root", abs),
		zap.Int("children", len(nodes)),
		zap.Stringer("inclusion", s.Index.Mode()))
	return nodes, nil
}

// Expand discovers a directory's children.
func (s *Session) Expand(id treeindex.NodeID) ([]treeindex.Node, error) {
	nodes, err := s.Index.Discover(id)
	if err != nil {
		if n, ok := s.Index.Node(id); ok {
			level := zap.ErrorLevel
			if fsys.IsRecoverable(err) {
				level = zap.WarnLevel
			}
			s.Logger.Log(level, "discover failed", zap.String("path", n.Path), zap.Error(err))
		}
		return nil, err
	}
	if n, ok := s.Index.Node(id); ok {
		s.Logger.Debug("directory discovered", zap.String("path", n.Path), zap.Int("children", len(nodes)))
	}
	return nodes, nil
}

func (s *Session) Toggle(id treeindex.NodeID) (bool, error) {
	return s.Index.Toggle(id)
}

func (s *Session) SetIncluded(id treeindex.NodeID, value bool, propagate bool) error {
	return s.Index.SetIncluded(id, value, propagate)
}

func (s *Session) SetAll(value bool, propagate bool) {
	s.Index.SetAll(value, propagate)
}

// ApplyPattern sets the flag of every tracked node whose relative path
// matches pattern, propagating into discovered descendants. It returns the
// number of matching nodes.
func (s *Session) ApplyPattern(pattern string, include bool) (int, error) {
	if s.Root() == "" {
		return 0, ErrNoRoot
	}
	m, err := selection.ParseMatcher(pattern)
	if err != nil {
		return 0, err
	}

	root := s.Root()
	covered := setpkg.NewSet[treeindex.NodeID]()
	var targets []treeindex.NodeID
	count := 0
	s.Index.Walk(func(n treeindex.Node, depth int) bool {
		parent, _ := s.Index.Parent(n.ID)
		underMatch := covered.Contains(parent)
		rel, ok := selection.RelPath(root, n.Path)
		matched := ok && m.Match(rel)
		if matched {
			count++
		}
		if matched || underMatch {
			covered.Add(n.ID)
		}
		if matched && !underMatch {
			targets = append(targets, n.ID)
		}
		return true
	})

	for _, id := range targets {
		if err := s.Index.SetIncluded(id, include, true); err != nil {
			return count, err
		}
	}
	s.Logger.Debug("pattern applied", zap.String("pattern", pattern), zap.Bool("include", include), zap.Int("matched", count))
	return count, nil
}

// Predicate freezes the current inclusion flags.
func (s *Session) Predicate() render.Predicate {
	return s.Index.Snapshot()
}

// Preview renders the included tree as it is on disk now.
func (s *Session) Preview() (string, error) {
	if s.Root() == "" {
		return "", ErrNoRoot
	}
	return s.Renderer.Render(s.Root(), s.Predicate())
}

// Stats summarizes a rendered preview.
func (s *Session) Stats(report string) metrics.Summary {
	return metrics.Summarize(report, s.Counter)
}

// Export writes the report to dest, or to DefaultDestination when dest is "".
func (s *Session) Export(dest string) (string, error) {
	if s.Root() == "" {
		return "", ErrNoRoot
	}
	return s.export(s.Root(), s.Predicate(), dest)
}

// ExportAsync snapshots the flags now and writes the report on another
// goroutine. The channel yields exactly one result.
func (s *Session) ExportAsync(dest string) <-chan ExportResult {
	out := make(chan ExportResult, 1)
	if s.Root() == "" {
		out <- ExportResult{Err: ErrNoRoot}
		close(out)
		return out
	}

	root, pred := s.Root(), s.Predicate()
	go func() {
		defer close(out)
		path, err := s.export(root, pred, dest)
		out <- ExportResult{Path: path, Err: err}
	}()
	return out
}

func (s *Session) export(root string, pred render.Predicate, dest string) (string, error) {
	if dest == "" {
		dest = DefaultDestination(root)
	}
	s.Logger.Info("export started", zap.String("root", root), zap.String("dest", dest))

	path, err := s.Exporter.Export(root, pred, dest)
	if err != nil {
		s.Logger.Error("export failed", zap.String("dest", dest), zap.Error(err))
		return "", err
	}
	s.Logger.Info("export finished", zap.String("path", path))
	return path, nil
}
