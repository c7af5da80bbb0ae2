//go:build wireinject

package foldermap

import (
	"github.com/google/wire"
	"go.uber.org/zap"
)

// BuildSession assembles a Session for cfg. The caller selects a root.
func BuildSession(cfg Config, logger *zap.Logger) (*Session, error) {
	panic(wire.Build(Wires))
}
