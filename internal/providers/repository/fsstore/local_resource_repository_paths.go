package fsstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/portalkit/portalkit/resource"
)

func (r *LocalResourceRepository) resourceFilePath(resourcePath string) (string, string, error) {
	if r.baseDir == "" {
		return "", "", validationError("repository base directory must not be empty", nil)
	}

	normalized, err := resource.NormalizePath(resourcePath)
	if err != nil {
		return "", "", err
	}
	if isInternalPath(normalized) {
		return "", "", validationError("resource path targets repository metadata", nil)
	}

	filePath := filepath.Join(r.baseDir, filepath.FromSlash(normalized))
	if !isPathUnderRoot(r.baseDir, filePath) {
		return "", "", validationError("resource path escapes repository base directory", nil)
	}
	return normalized, filePath, nil
}

func isInternalPath(normalized string) bool {
	first := normalized
	if idx := strings.Index(normalized, "/"); idx >= 0 {
		first = normalized[:idx]
	}
	return first == ".git" || strings.HasPrefix(first, ".portalkit")
}

// isPathUnderRoot resolves symlinks of the existing part of candidate, so a
// link inside the working copy cannot redirect writes outside of it.
func isPathUnderRoot(root string, candidate string) bool {
	rootResolved, err := resolveExisting(root)
	if err != nil {
		return false
	}
	candidateResolved, err := resolveExisting(candidate)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(rootResolved, candidateResolved)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func resolveExisting(path string) (string, error) {
	cleaned := filepath.Clean(path)
	var missing []string
	current := cleaned
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for idx := len(missing) - 1; idx >= 0; idx-- {
				resolved = filepath.Join(resolved, missing[idx])
			}
			return resolved, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return cleaned, nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// cleanupEmptyParents removes empty directories from startDir up to, but not
// including, the base directory.
func (r *LocalResourceRepository) cleanupEmptyParents(startDir string) error {
	current := filepath.Clean(startDir)
	root := filepath.Clean(r.baseDir)

	for current != root && current != "." && current != string(filepath.Separator) {
		if !isPathUnderRoot(root, current) {
			return nil
		}
		err := os.Remove(current)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, fs.ErrExist) || isDirNotEmpty(err) {
				return nil
			}
			return err
		}
		current = filepath.Dir(current)
	}
	return nil
}

func isDirNotEmpty(err error) bool {
	return strings.Contains(err.Error(), "not empty")
}
