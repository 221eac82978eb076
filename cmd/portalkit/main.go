package main

import (
	"context"
	"os"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/core"
	"github.com/portalkit/portalkit/internal/cli"
	"github.com/portalkit/portalkit/internal/cli/common"
)

func main() {
	bootstrap := core.BootstrapConfig{}
	deps := cli.Dependencies{
		Contexts: core.NewContextService(bootstrap),
		Resolve:  newStoreResolver(bootstrap),
		Getenv:   os.Getenv,
	}

	if err := cli.Execute(deps); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}

// newStoreResolver builds the stores of a context on first use, so commands
// that never touch a context (help, completion, template) work without a
// catalog.
func newStoreResolver(bootstrap core.BootstrapConfig) common.StoreResolver {
	return func(ctx context.Context, selection config.ContextSelection) (common.Stores, error) {
		portalContext, err := core.NewPortalContext(ctx, bootstrap, selection)
		if err != nil {
			return common.Stores{}, err
		}
		return storesFromPortalContext(portalContext), nil
	}
}

func storesFromPortalContext(portalContext core.PortalContext) common.Stores {
	return common.Stores{
		Context:        portalContext.Context,
		Backend:        portalContext.Backend,
		WorkingCopy:    portalContext.WorkingCopy,
		RepositorySync: portalContext.RepositorySync,
		Committer:      portalContext.Committer,
		History:        portalContext.History,
	}
}
