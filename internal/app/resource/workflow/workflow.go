package workflow

import (
	"context"
	"fmt"

	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

type (
	Backend     = repository.BackendStore
	WorkingCopy = repository.WorkingCopyStore
)

// Snapshot reads every specifier from reader and converts the stored files
// into resources with local values. Specifiers without a stored file come
// back with a nil Value.
func Snapshot(ctx context.Context, reader repository.ResourceReader, specifiers []resource.Specifier) ([]resource.Resource, error) {
	if reader == nil {
		return nil, faults.NewValidationError("resource reader is not configured", nil)
	}
	if len(specifiers) == 0 {
		return []resource.Resource{}, nil
	}

	paths := make([]string, 0, len(specifiers))
	for _, specifier := range specifiers {
		path, err := resource.RenderPath(specifier)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	files, err := reader.ReadResources(ctx, paths)
	if err != nil {
		return nil, err
	}
	byPath := make(map[string]repository.RemoteFile, len(files))
	for _, file := range files {
		byPath[file.Path] = file
	}

	resources := make([]resource.Resource, 0, len(specifiers))
	for idx, specifier := range specifiers {
		item, err := FileToResource(specifier, paths[idx], byPath[paths[idx]])
		if err != nil {
			return nil, err
		}
		resources = append(resources, item)
	}
	return resources, nil
}

// FileToResource decodes the wire data of a stored file.
func FileToResource(specifier resource.Specifier, path string, file repository.RemoteFile) (resource.Resource, error) {
	item := resource.Resource{
		Specifier: specifier,
		Path:      path,
		Checksum:  file.Checksum,
	}

	kind := specifier.Def.Kind
	if file.Data != nil {
		value, err := resource.DecodeValue(kind, *file.Data)
		if err != nil {
			return resource.Resource{}, faults.NewValidationError(fmt.Sprintf("resource %q holds invalid data", path), err)
		}
		item.Value = &value
	}
	if file.EffectiveData != nil {
		effective, err := resource.DecodeValue(kind, *file.EffectiveData)
		if err != nil {
			return resource.Resource{}, faults.NewValidationError(fmt.Sprintf("resource %q holds invalid effective data", path), err)
		}
		item.EffectiveData = &effective
	}
	return item, nil
}

// ResourceToFile encodes a local value for the wire. A resource without a
// value becomes a deletion.
func ResourceToFile(item resource.Resource) repository.FileUpdate {
	update := repository.FileUpdate{Path: item.Path, Checksum: item.Checksum}
	if item.Present() {
		encoded := resource.EncodeValue(item.Specifier.Def.Kind, *item.Value)
		update.Data = &encoded
	}
	return update
}

// UpdatesToFiles converts a write request into store updates. Checksums are
// dropped when conflicts are ignored.
func UpdatesToFiles(updates []resource.Update, ignoreConflict bool) []repository.FileUpdate {
	files := make([]repository.FileUpdate, 0, len(updates))
	for _, update := range updates {
		file := repository.FileUpdate{Path: update.Path}
		if !ignoreConflict {
			file.Checksum = update.Checksum
		}
		if !update.IsDeletion() {
			encoded := resource.EncodeValue(update.Specifier.Def.Kind, *update.Value)
			file.Data = &encoded
		}
		files = append(files, file)
	}
	return files
}
