package pull

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

type Dependencies struct {
	Backend     workflow.Backend
	WorkingCopy workflow.WorkingCopy
	Registry    *resource.Registry
	// Locales come from the selected context.
	Locales []string
}

type Request struct {
	Locales []string
	DryRun  bool
}

type Result struct {
	Locales   []string `json:"locales" yaml:"locales"`
	Written   []string `json:"written" yaml:"written"`
	Deleted   []string `json:"deleted" yaml:"deleted"`
	Unchanged int      `json:"unchanged" yaml:"unchanged"`
	DryRun    bool     `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
}

// Execute mirrors the backend resources of the resolved locales into the
// working copy. Local files the backend does not hold are removed; files
// outside the managed paths are left alone.
func Execute(ctx context.Context, deps Dependencies, req Request) (Result, error) {
	backend, workingCopy, registry, err := requireDependencies(deps)
	if err != nil {
		return Result{}, err
	}
	logger := debugctx.Logger(ctx)

	locales, err := workflow.ResolveLocales(ctx, req.Locales, deps.Locales, backend)
	if err != nil {
		return Result{}, err
	}
	paths, err := registry.Paths(locales)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("pulling resources", zap.Strings("locales", locales), zap.Int("paths", len(paths)))

	remoteFiles, err := backend.ReadResources(ctx, paths)
	if err != nil {
		return Result{}, err
	}
	localFiles, err := workingCopy.ReadResources(ctx, paths)
	if err != nil {
		return Result{}, err
	}
	localByPath := indexByPath(localFiles)

	result := Result{Locales: locales, Written: []string{}, Deleted: []string{}, DryRun: req.DryRun}
	updates := make([]repository.FileUpdate, 0)
	for _, remote := range remoteFiles {
		local := localByPath[remote.Path]
		remoteExists, localExists := hasData(remote), hasData(local)
		switch {
		case !remoteExists && !localExists:
			continue
		case !remoteExists:
			updates = append(updates, repository.FileUpdate{Path: remote.Path})
			result.Deleted = append(result.Deleted, remote.Path)
		case localExists && *local.Data == *remote.Data:
			result.Unchanged++
		default:
			data := *remote.Data
			updates = append(updates, repository.FileUpdate{Path: remote.Path, Data: &data})
			result.Written = append(result.Written, remote.Path)
		}
	}
	sort.Strings(result.Written)
	sort.Strings(result.Deleted)

	if req.DryRun || len(updates) == 0 {
		return result, nil
	}
	if err := workingCopy.WriteResources(ctx, updates, true); err != nil {
		return Result{}, err
	}
	logger.Debug("pulled resources", zap.Int("written", len(result.Written)), zap.Int("deleted", len(result.Deleted)))
	return result, nil
}

// hasData reports whether file holds content. An empty value counts as
// absent, as it does for the resource diff.
func hasData(file repository.RemoteFile) bool {
	return file.Data != nil && *file.Data != ""
}

func indexByPath(files []repository.RemoteFile) map[string]repository.RemoteFile {
	index := make(map[string]repository.RemoteFile, len(files))
	for _, file := range files {
		index[file.Path] = file
	}
	return index
}

func requireDependencies(deps Dependencies) (workflow.Backend, workflow.WorkingCopy, *resource.Registry, error) {
	if deps.Backend == nil {
		return nil, nil, nil, validationError("backend is not configured for the selected context")
	}
	if deps.WorkingCopy == nil {
		return nil, nil, nil, validationError("working copy is not configured")
	}
	registry := deps.Registry
	if registry == nil {
		registry = resource.DefaultRegistry()
	}
	return deps.Backend, deps.WorkingCopy, registry, nil
}

func validationError(message string) error {
	return faults.NewTypedError(faults.ValidationError, message, nil)
}
