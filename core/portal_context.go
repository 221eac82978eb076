package core

import (
	"context"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/debugctx"
	configfile "github.com/portalkit/portalkit/internal/providers/config/file"
)

func NewContextService(opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath)
}

func newLoggingContextService(ctx context.Context, opts BootstrapConfig) config.ContextService {
	return configfile.NewFileContextService(opts.ContextCatalogPath, configfile.WithLogger(debugctx.Logger(ctx)))
}

// NewPortalContext resolves selection against the context catalog and builds
// its stores. The logger installed in ctx is handed to every provider.
func NewPortalContext(ctx context.Context, opts BootstrapConfig, selection config.ContextSelection) (PortalContext, error) {
	contextService := newLoggingContextService(ctx, opts)
	portalContext, err := buildPortalContext(ctx, contextService, selection)
	if err != nil {
		return PortalContext{}, err
	}
	portalContext.Contexts = contextService
	return portalContext, nil
}
