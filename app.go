package foldermap

import (
	"github.com/google/wire"
	"github.com/hayeah/foldermap/internal/fsys"
	"github.com/hayeah/foldermap/internal/metrics"
	"github.com/hayeah/foldermap/internal/treeindex"
	"github.com/hayeah/foldermap/render"
)

// ProvideLister reads the real filesystem.
func ProvideLister() fsys.Lister {
	return fsys.OSLister{}
}

// ProvideIndex creates an empty index in the configured inclusion mode.
func ProvideIndex(cfg Config, lister fsys.Lister) (*treeindex.Index, error) {
	mode, err := cfg.InclusionMode()
	if err != nil {
		return nil, err
	}
	return treeindex.New(treeindex.Options{Lister: lister, Mode: mode}), nil
}

func ProvideRenderer(lister fsys.Lister) *render.Renderer {
	return render.NewRenderer(lister)
}

func ProvideExporter(r *render.Renderer) *Exporter {
	return NewExporter(r)
}

func ProvideCounter(cfg Config) (metrics.Counter, error) {
	return metrics.NewCounter(cfg.Metrics.TokenEstimator)
}

// collect all the necessary providers
var Wires = wire.NewSet(
	ProvideLister,
	ProvideIndex,
	ProvideRenderer,
	ProvideExporter,
	ProvideCounter,

	wire.Struct(new(Session), "*"),
)
