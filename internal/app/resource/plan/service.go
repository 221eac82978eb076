package plan

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/resource"
)

type Dependencies struct {
	Backend     workflow.Backend
	WorkingCopy workflow.WorkingCopy
	Registry    *resource.Registry
	Locales     []string
}

type Request struct {
	Locales []string
}

type ChangeAction string

const (
	ActionNew    ChangeAction = "new"
	ActionEdit   ChangeAction = "edit"
	ActionDelete ChangeAction = "delete"
)

// Change is the printable form of one diff entry.
type Change struct {
	Action ChangeAction `json:"action" yaml:"action"`
	Path   string       `json:"path" yaml:"path"`
	ID     string       `json:"id" yaml:"id"`
}

// Plan is the change set that turns the backend state into the working copy
// state.
type Plan struct {
	Locales []string      `json:"locales" yaml:"locales"`
	Changes []Change      `json:"changes" yaml:"changes"`
	Diff    resource.Diff `json:"-" yaml:"-"`
}

func (p Plan) NeedUpdate() bool {
	return p.Diff.NeedUpdate
}

// HasDeletions reports whether applying the plan removes backend resources.
func (p Plan) HasDeletions() bool {
	return len(p.Diff.Deleted) > 0
}

// Execute reads the backend and the working copy for the resolved locales and
// diffs them, the backend being the initial snapshot.
func Execute(ctx context.Context, deps Dependencies, req Request) (Plan, error) {
	backend, workingCopy, registry, err := requireDependencies(deps)
	if err != nil {
		return Plan{}, err
	}

	locales, err := workflow.ResolveLocales(ctx, req.Locales, deps.Locales, workingCopy, backend)
	if err != nil {
		return Plan{}, err
	}
	specifiers := registry.Specifiers(locales)

	initial, err := workflow.Snapshot(ctx, backend, specifiers)
	if err != nil {
		return Plan{}, err
	}
	current, err := workflow.Snapshot(ctx, workingCopy, specifiers)
	if err != nil {
		return Plan{}, err
	}

	result := newPlan(locales, resource.DiffResources(initial, current))
	debugctx.Logger(ctx).Debug("planned resource changes",
		zap.Strings("locales", locales),
		zap.Int("changes", len(result.Changes)),
	)
	return result, nil
}

// RemoveLocale plans the deletion of every backend resource of one locale.
// The fallback language of the app cannot be removed.
func RemoveLocale(ctx context.Context, deps Dependencies, locale string) (Plan, error) {
	if err := resource.ValidateLocale(locale); err != nil {
		return Plan{}, err
	}
	if deps.Backend == nil {
		return Plan{}, validationError("backend is not configured for the selected context")
	}
	registry := deps.Registry
	if registry == nil {
		registry = resource.DefaultRegistry()
	}

	var localization workflow.Localization
	document, err := deps.Backend.ReadConfig(ctx)
	switch {
	case err == nil:
		localization, err = workflow.ParseLocalization(document.Data)
		if err != nil {
			return Plan{}, err
		}
	case !faults.IsCategory(err, faults.NotFoundError):
		return Plan{}, err
	}
	if localization.Fallback() == locale {
		return Plan{}, validationError(fmt.Sprintf("locale %q is the fallback language and cannot be removed", locale))
	}

	initial, err := workflow.Snapshot(ctx, deps.Backend, registry.LocaleSpecifiers(locale))
	if err != nil {
		return Plan{}, err
	}
	return newPlan([]string{locale}, resource.DiffResources(initial, nil)), nil
}

func newPlan(locales []string, diff resource.Diff) Plan {
	result := Plan{Locales: slices.Clone(locales), Changes: []Change{}, Diff: diff}
	groups := []struct {
		action ChangeAction
		items  []resource.Resource
	}{
		{action: ActionNew, items: diff.New},
		{action: ActionEdit, items: diff.Edited},
		{action: ActionDelete, items: diff.Deleted},
	}
	for _, group := range groups {
		for _, item := range group.items {
			result.Changes = append(result.Changes, Change{Action: group.action, Path: item.Path, ID: item.ID()})
		}
	}
	return result
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
