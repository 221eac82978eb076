package read

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

const (
	SourceWorkingCopy = "working-copy"
	SourceBackend     = "backend"
)

type Dependencies struct {
	Backend     repository.ResourceReader
	WorkingCopy interface {
		repository.ResourceReader
		repository.ResourceLister
	}
	Registry *resource.Registry
}

type Request struct {
	Path   string
	Source string
}

type Result struct {
	OutputValue any
	TextLines   []string
}

// Entry is one resource as read from a source.
type Entry struct {
	Path     string        `json:"path" yaml:"path"`
	Name     string        `json:"name" yaml:"name"`
	Locale   string        `json:"locale,omitempty" yaml:"locale,omitempty"`
	Kind     resource.Kind `json:"kind" yaml:"kind"`
	Value    string        `json:"value" yaml:"value"`
	Checksum string        `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	// Effective is set when the value is the backend default because the
	// app does not customise the resource.
	Effective bool `json:"effective,omitempty" yaml:"effective,omitempty"`
}

type ListEntry struct {
	Path     string `json:"path" yaml:"path"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Locale   string `json:"locale,omitempty" yaml:"locale,omitempty"`
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Managed  bool   `json:"managed" yaml:"managed"`
}

// Execute reads one resource. Message templates the app never customised
// fall back to their effective value.
func Execute(ctx context.Context, deps Dependencies, req Request) (Result, error) {
	registry := registryOrDefault(deps)
	normalizedPath, err := resource.NormalizePath(req.Path)
	if err != nil {
		return Result{}, err
	}
	specifier, ok, err := registry.Lookup(normalizedPath)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{}, validationError(fmt.Sprintf("path %q is not a known resource", normalizedPath), nil)
	}

	reader, err := requireReader(deps, req.Source)
	if err != nil {
		return Result{}, err
	}
	debugctx.Logger(ctx).Debug("reading resource", zap.String("path", normalizedPath), zap.String("source", req.Source))

	items, err := workflow.Snapshot(ctx, reader, []resource.Specifier{specifier})
	if err != nil {
		return Result{}, err
	}
	item := items[0]

	entry := Entry{
		Path:     item.Path,
		Name:     specifier.Def.Name,
		Locale:   specifier.Locale,
		Kind:     specifier.Def.Kind,
		Checksum: item.Checksum,
	}
	switch {
	case item.Present():
		entry.Value = *item.Value
	case item.DisplayValue() != "":
		entry.Value = item.DisplayValue()
		entry.Effective = true
	default:
		return Result{}, faults.NewNotFoundError(fmt.Sprintf("resource %q not found in %s", normalizedPath, req.Source))
	}

	return Result{OutputValue: entry, TextLines: []string{entry.Value}}, nil
}

type ListRequest struct {
	Source  string
	Locales []string
}

// List returns the resources a source holds. The working copy lists every
// file, flagging those outside the known resource paths; the backend is
// probed for the known paths of the given locales.
func List(ctx context.Context, deps Dependencies, req ListRequest) (Result, error) {
	registry := registryOrDefault(deps)
	reader, err := requireReader(deps, req.Source)
	if err != nil {
		return Result{}, err
	}

	var paths []string
	if req.Source == SourceWorkingCopy {
		paths, err = deps.WorkingCopy.ListPaths(ctx)
	} else {
		paths, err = registry.Paths(req.Locales)
	}
	if err != nil {
		return Result{}, err
	}

	files, err := reader.ReadResources(ctx, paths)
	if err != nil {
		return Result{}, err
	}

	entries := make([]ListEntry, 0, len(files))
	for _, file := range files {
		if file.Data == nil {
			continue
		}
		entry := ListEntry{Path: file.Path, Checksum: file.Checksum}
		specifier, ok, lookupErr := registry.Lookup(file.Path)
		if lookupErr != nil {
			return Result{}, lookupErr
		}
		if ok {
			entry.Managed = true
			entry.Name = specifier.Def.Name
			entry.Locale = specifier.Locale
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.Path)
	}
	return Result{OutputValue: entries, TextLines: lines}, nil
}

// NormalizeSource picks the source from the mutually exclusive source flags.
// The backend is the default.
func NormalizeSource(fromWorkingCopy bool, fromBackend bool) (string, error) {
	if fromWorkingCopy && fromBackend {
		return "", validationError("flags --working-copy and --backend cannot be used together", nil)
	}
	if fromWorkingCopy {
		return SourceWorkingCopy, nil
	}
	return SourceBackend, nil
}

func RenderTextLines(lines []string) func(any) []string {
	return func(any) []string { return lines }
}

func (r Result) HasTextLines() bool {
	return r.TextLines != nil
}

func (r Result) String() string {
	return fmt.Sprintf("read.Result{output:%T,lines:%d}", r.OutputValue, len(r.TextLines))
}

func requireReader(deps Dependencies, source string) (repository.ResourceReader, error) {
	switch source {
	case SourceWorkingCopy:
		if deps.WorkingCopy == nil {
			return nil, validationError("working copy is not configured", nil)
		}
		return deps.WorkingCopy, nil
	case SourceBackend:
		if deps.Backend == nil {
			return nil, validationError("backend is not configured for the selected context", nil)
		}
		return deps.Backend, nil
	default:
		return nil, validationError(fmt.Sprintf("unknown source %q", source), nil)
	}
}

func registryOrDefault(deps Dependencies) *resource.Registry {
	if deps.Registry != nil {
		return deps.Registry
	}
	return resource.DefaultRegistry()
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}
