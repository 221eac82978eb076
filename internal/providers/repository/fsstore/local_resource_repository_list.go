package fsstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListPaths returns the slash-separated paths of every file in the working
// copy, sorted. Repository metadata and temporary files are skipped.
func (r *LocalResourceRepository) ListPaths(ctx context.Context) ([]string, error) {
	paths := make([]string, 0)
	err := filepath.WalkDir(r.baseDir, func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(r.baseDir, filePath)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		slashPath := filepath.ToSlash(rel)

		if entry.IsDir() {
			if isInternalPath(slashPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if isInternalPath(slashPath) || strings.HasPrefix(entry.Name(), ".portalkit-tmp-") {
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		paths = append(paths, slashPath)
		return nil
	})
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, internalError("failed to list working copy", err)
	}

	sort.Strings(paths)
	return paths, nil
}
