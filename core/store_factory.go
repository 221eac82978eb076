package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	fsstore "github.com/portalkit/portalkit/internal/providers/repository/fsstore"
	gitrepository "github.com/portalkit/portalkit/internal/providers/repository/git"
	"github.com/portalkit/portalkit/internal/providers/server/graphql"
)

func buildPortalContext(
	ctx context.Context,
	contextService config.ContextService,
	selection config.ContextSelection,
) (PortalContext, error) {
	if contextService == nil {
		return PortalContext{}, faults.NewTypedError(faults.ValidationError, "context service must not be nil", nil)
	}

	resolvedContext, err := contextService.ResolveContext(ctx, selection)
	if err != nil {
		return PortalContext{}, err
	}

	logger := debugctx.Logger(ctx).With(zap.String("context", resolvedContext.Name))
	portalContext := PortalContext{Context: resolvedContext}

	storeOptions := []fsstore.Option{
		fsstore.WithMaxFileSize(resolvedContext.Repository.MaxFileSize),
		fsstore.WithLogger(logger),
	}
	switch {
	case resolvedContext.Repository.Filesystem != nil:
		local := fsstore.NewLocalResourceRepository(resolvedContext.Repository.Filesystem.BaseDir, storeOptions...)
		portalContext.WorkingCopy = local
		portalContext.RepositorySync = local
	case resolvedContext.Repository.Git != nil:
		git := gitrepository.NewGitResourceRepository(*resolvedContext.Repository.Git, logger, storeOptions...)
		portalContext.WorkingCopy = git
		portalContext.RepositorySync = git
		portalContext.Committer = git
		portalContext.History = git
	}

	if resolvedContext.Backend != nil {
		client, err := graphql.NewClient(*resolvedContext.Backend, graphql.WithLogger(logger))
		if err != nil {
			return PortalContext{}, err
		}
		portalContext.Backend = client
	}

	logger.Debug("context resolved",
		zap.Bool("backend", portalContext.Backend != nil),
		zap.String("repository", resolvedContext.Repository.BaseDir()),
	)
	return portalContext, nil
}
