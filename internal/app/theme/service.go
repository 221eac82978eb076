package theme

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
	themedomain "github.com/portalkit/portalkit/theme"
)

// Store is where theme stylesheets are read from and written to: the working
// copy or the backend.
type Store interface {
	repository.ResourceReader
	repository.ResourceWriter
}

type Dependencies struct {
	Store Store
}

// Document is the stylesheet of one target as stored.
type Document struct {
	Target   themedomain.Target
	Path     string
	Sheet    *themedomain.Stylesheet
	Checksum string
	Exists   bool
	source   string
}

type ShowResult struct {
	Target     themedomain.Target            `json:"target" yaml:"target"`
	Path       string                        `json:"path" yaml:"path"`
	Customised bool                          `json:"customised" yaml:"customised"`
	Theme      themedomain.CustomisableTheme `json:"theme" yaml:"theme"`
}

type WriteResult struct {
	Target  themedomain.Target             `json:"target" yaml:"target"`
	Path    string                         `json:"path" yaml:"path"`
	Changed bool                           `json:"changed" yaml:"changed"`
	Deleted bool                           `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Theme   *themedomain.CustomisableTheme `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// Definition returns the resource that holds the stylesheet of target.
func Definition(target themedomain.Target) *resource.Definition {
	if target == themedomain.Dark {
		return resource.DarkThemeCSS
	}
	return resource.LightThemeCSS
}

// Load reads and parses the stylesheet of target. A missing resource loads
// as an empty sheet.
func Load(ctx context.Context, deps Dependencies, target themedomain.Target) (Document, error) {
	if deps.Store == nil {
		return Document{}, faults.NewValidationError("theme store is not configured", nil)
	}

	items, err := workflow.Snapshot(ctx, deps.Store, []resource.Specifier{{Def: Definition(target)}})
	if err != nil {
		return Document{}, err
	}
	item := items[0]

	document := Document{Target: target, Path: item.Path, Checksum: item.Checksum, Sheet: &themedomain.Stylesheet{}}
	if item.Value != nil {
		document.Exists = true
		document.source = *item.Value
		sheet, err := themedomain.ParseString(*item.Value)
		if err != nil {
			return Document{}, faults.NewTypedError(faults.ValidationError, fmt.Sprintf("%s is not valid CSS", item.Path), err)
		}
		document.Sheet = sheet
	}
	return document, nil
}

// Show decodes the theme of target, falling back to the target defaults for
// every field the stylesheet does not set.
func Show(ctx context.Context, deps Dependencies, target themedomain.Target) (ShowResult, error) {
	document, err := Load(ctx, deps, target)
	if err != nil {
		return ShowResult{}, err
	}
	decoded := themedomain.DecodeTarget(document.Sheet, target)
	return ShowResult{
		Target:     target,
		Path:       document.Path,
		Customised: len(document.Sheet.Rulesets(target.Selector())) > 0,
		Theme:      decoded,
	}, nil
}

// Set applies the patch onto the stored theme of target, validates the
// result and writes the stylesheet back. Unrelated rules and declarations
// are preserved.
func Set(ctx context.Context, deps Dependencies, target themedomain.Target, patch themedomain.Patch) (WriteResult, error) {
	document, err := Load(ctx, deps, target)
	if err != nil {
		return WriteResult{}, err
	}

	next := themedomain.DecodeTarget(document.Sheet, target).With(patch)
	if err := themedomain.Validate(next); err != nil {
		return WriteResult{}, err
	}

	result, err := write(ctx, deps, document, themedomain.Apply(document.Sheet, target.Selector(), next))
	if err != nil {
		return WriteResult{}, err
	}
	result.Theme = &next
	return result, nil
}

// Reset removes the theme declarations of target, so the defaults apply
// again. A stylesheet left empty is deleted.
func Reset(ctx context.Context, deps Dependencies, target themedomain.Target) (WriteResult, error) {
	document, err := Load(ctx, deps, target)
	if err != nil {
		return WriteResult{}, err
	}
	if !document.Exists {
		return WriteResult{Target: target, Path: document.Path}, nil
	}
	return write(ctx, deps, document, themedomain.Remove(document.Sheet, target.Selector()))
}

// Migrate rewrites a dark stylesheet that still uses the prefers-color-scheme
// media query into the class based form.
func Migrate(ctx context.Context, deps Dependencies) (WriteResult, error) {
	document, err := Load(ctx, deps, themedomain.Dark)
	if err != nil {
		return WriteResult{}, err
	}
	migrated, changed := themedomain.MigrateMediaQueryToClassBased(document.Sheet)
	if !changed {
		return WriteResult{Target: themedomain.Dark, Path: document.Path}, nil
	}
	return write(ctx, deps, document, migrated)
}

// EnsureDeclaration adds a declaration to the target ruleset unless the
// property is already declared there.
func EnsureDeclaration(ctx context.Context, deps Dependencies, target themedomain.Target, declaration themedomain.Declaration) (WriteResult, error) {
	if declaration.Property == "" || declaration.Value == "" {
		return WriteResult{}, faults.NewValidationError("declaration needs a property and a value", nil)
	}
	document, err := Load(ctx, deps, target)
	if err != nil {
		return WriteResult{}, err
	}
	updated, added := themedomain.AddDeclarationIfAbsent(document.Sheet, target.Selector(), declaration)
	if !added {
		return WriteResult{Target: target, Path: document.Path}, nil
	}
	return write(ctx, deps, document, updated)
}

// write stores sheet in place of document, guarded by the checksum the
// document was read with. An unchanged stylesheet is not written.
func write(ctx context.Context, deps Dependencies, document Document, sheet *themedomain.Stylesheet) (WriteResult, error) {
	result := WriteResult{Target: document.Target, Path: document.Path}

	content := sheet.String()
	if document.Exists && content == document.source {
		return result, nil
	}
	if !document.Exists && content == "" {
		return result, nil
	}

	update := repository.FileUpdate{Path: document.Path, Checksum: document.Checksum}
	if content != "" {
		encoded := resource.EncodeValue(resource.KindText, content)
		update.Data = &encoded
	}

	if err := deps.Store.WriteResources(ctx, []repository.FileUpdate{update}, false); err != nil {
		return WriteResult{}, err
	}
	debugctx.Logger(ctx).Debug("wrote theme stylesheet",
		zap.String("path", document.Path),
		zap.Bool("deleted", update.Data == nil),
	)

	result.Changed = true
	result.Deleted = update.Data == nil
	return result, nil
}
