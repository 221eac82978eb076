package common

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/repository"
)

// Stores are the collaborators of one resolved context. Fields stay nil when
// the context does not configure them.
type Stores struct {
	Context        config.Context
	Backend        repository.BackendStore
	WorkingCopy    repository.WorkingCopyStore
	RepositorySync repository.RepositorySync
	Committer      repository.RepositoryCommitter
	History        repository.RepositoryHistoryReader
}

// StoreResolver builds the stores of the selected context.
type StoreResolver func(ctx context.Context, selection config.ContextSelection) (Stores, error)

type CommandDependencies struct {
	Contexts config.ContextService
	Resolve  StoreResolver
	Getenv   func(string) string
}

func RequireContexts(deps CommandDependencies) (config.ContextService, error) {
	if deps.Contexts == nil {
		return nil, ValidationError("context service is not configured", nil)
	}
	return deps.Contexts, nil
}

// ResolveStores resolves the context selected by --context, with overrides
// taken from the environment.
func ResolveStores(command *cobra.Command, deps CommandDependencies) (Stores, error) {
	if deps.Resolve == nil {
		return Stores{}, ValidationError("context resolver is not configured", nil)
	}
	getenv := deps.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	selection := config.ContextSelection{
		Name:      SelectedContext(command.Context()),
		Overrides: config.EnvOverrides(getenv),
	}
	return deps.Resolve(command.Context(), selection)
}

func RequireBackend(stores Stores) (repository.BackendStore, error) {
	if stores.Backend == nil {
		return nil, ValidationError("context has no backend configured", nil)
	}
	return stores.Backend, nil
}

func RequireWorkingCopy(stores Stores) (repository.WorkingCopyStore, error) {
	if stores.WorkingCopy == nil {
		return nil, ValidationError("context has no repository configured", nil)
	}
	return stores.WorkingCopy, nil
}

func RequireRepositorySync(stores Stores) (repository.RepositorySync, error) {
	if stores.RepositorySync == nil {
		return nil, ValidationError("repository sync is not configured", nil)
	}
	return stores.RepositorySync, nil
}

func RequireCommitter(stores Stores) (repository.RepositoryCommitter, error) {
	if stores.Committer == nil {
		return nil, ValidationError("repository does not record commits: use a git repository", nil)
	}
	return stores.Committer, nil
}

func RequireHistory(stores Stores) (repository.RepositoryHistoryReader, error) {
	if stores.History == nil {
		return nil, ValidationError("repository has no history: use a git repository", nil)
	}
	return stores.History, nil
}
