package save

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/resource"
)

type Dependencies struct {
	Backend     workflow.Backend
	WorkingCopy workflow.WorkingCopy
}

type ExecuteOptions struct {
	// IgnoreConflict drops the checksums, so the backend overwrites
	// concurrent changes.
	IgnoreConflict bool
	// AllowDeletions confirms that the push may remove backend resources.
	AllowDeletions bool
	// MirrorToWorkingCopy applies the same updates to the working copy once
	// the backend accepted them.
	MirrorToWorkingCopy bool
}

type Result struct {
	Written []string `json:"written" yaml:"written"`
	Deleted []string `json:"deleted" yaml:"deleted"`
}

// Execute writes the updates to the backend in one request. Nothing is
// written when a guard fails.
func Execute(ctx context.Context, deps Dependencies, updates []resource.Update, options ExecuteOptions) (Result, error) {
	if deps.Backend == nil {
		return Result{}, validationError("backend is not configured for the selected context", nil)
	}
	if options.MirrorToWorkingCopy && deps.WorkingCopy == nil {
		return Result{}, validationError("working copy is not configured", nil)
	}

	result := Result{Written: []string{}, Deleted: []string{}}
	if len(updates) == 0 {
		return result, nil
	}

	if err := ensureUniquePaths(updates); err != nil {
		return Result{}, err
	}
	for _, update := range updates {
		if err := ensureConfigUpdateValid(update); err != nil {
			return Result{}, err
		}
	}
	if err := ensureDeletionsAllowed(updates, options.AllowDeletions); err != nil {
		return Result{}, err
	}

	files := workflow.UpdatesToFiles(updates, options.IgnoreConflict)
	logger := debugctx.Logger(ctx)
	logger.Debug("pushing resources", zap.Int("updates", len(files)), zap.Bool("ignoreConflict", options.IgnoreConflict))

	if err := deps.Backend.WriteResources(ctx, files, options.IgnoreConflict); err != nil {
		if faults.IsCategory(err, faults.ConflictError) {
			logger.Warn("backend rejected push with a conflict", zap.Error(err))
		}
		return Result{}, err
	}

	for _, update := range updates {
		if update.IsDeletion() {
			result.Deleted = append(result.Deleted, update.Path)
		} else {
			result.Written = append(result.Written, update.Path)
		}
	}
	sort.Strings(result.Written)
	sort.Strings(result.Deleted)

	if options.MirrorToWorkingCopy {
		if err := deps.WorkingCopy.WriteResources(ctx, workflow.UpdatesToFiles(updates, true), true); err != nil {
			return Result{}, err
		}
	}
	return result, nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func tooLargeError(message string) error {
	return faults.NewTypedError(faults.TooLargeError, message, nil)
}
