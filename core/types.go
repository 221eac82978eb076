package core

import (
	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/repository"
)

// PortalContext holds the stores of one resolved context. Backend is nil
// when the context declares no backend.
type PortalContext struct {
	Contexts       config.ContextService
	Context        config.Context
	Backend        repository.BackendStore
	WorkingCopy    repository.WorkingCopyStore
	RepositorySync repository.RepositorySync
	Committer      repository.RepositoryCommitter
	History        repository.RepositoryHistoryReader
}

type BootstrapConfig struct {
	ContextCatalogPath string
}
