package fsstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

// ReadResources reads the files concurrently. File content is returned in
// wire form with the checksum of the raw bytes.
func (r *LocalResourceRepository) ReadResources(ctx context.Context, paths []string) ([]repository.RemoteFile, error) {
	files := make([]repository.RemoteFile, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(readConcurrency)
	for idx, resourcePath := range paths {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			file, err := r.readResource(resourcePath)
			if err != nil {
				return err
			}
			files[idx] = file
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	r.logger.Debug("read working copy resources", zap.Int("count", len(paths)))
	return files, nil
}

func (r *LocalResourceRepository) readResource(resourcePath string) (repository.RemoteFile, error) {
	normalized, filePath, err := r.resourceFilePath(resourcePath)
	if err != nil {
		return repository.RemoteFile{}, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return repository.RemoteFile{Path: normalized}, nil
		}
		return repository.RemoteFile{}, internalError(fmt.Sprintf("failed to read resource %q", normalized), err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return repository.RemoteFile{
		Path:     normalized,
		Data:     &encoded,
		Checksum: resource.Checksum(data),
	}, nil
}

type plannedWrite struct {
	path     string
	filePath string
	data     []byte
	delete   bool
}

// WriteResources validates every update before touching the disk, so a
// conflict or an oversized file leaves the working copy unchanged.
func (r *LocalResourceRepository) WriteResources(ctx context.Context, updates []repository.FileUpdate, ignoreConflict bool) error {
	planned := make([]plannedWrite, 0, len(updates))
	for _, update := range updates {
		if err := ctx.Err(); err != nil {
			return err
		}
		write, err := r.planWrite(update, ignoreConflict)
		if err != nil {
			return err
		}
		planned = append(planned, write)
	}

	for _, write := range planned {
		if write.delete {
			if err := r.removeFile(write); err != nil {
				return err
			}
			continue
		}
		if err := r.writeFile(write); err != nil {
			return err
		}
	}

	r.logger.Debug("wrote working copy resources", zap.Int("count", len(planned)), zap.Bool("ignoreConflict", ignoreConflict))
	return nil
}

func (r *LocalResourceRepository) planWrite(update repository.FileUpdate, ignoreConflict bool) (plannedWrite, error) {
	normalized, filePath, err := r.resourceFilePath(update.Path)
	if err != nil {
		return plannedWrite{}, err
	}

	if !ignoreConflict && update.Checksum != "" {
		current, readErr := os.ReadFile(filePath)
		switch {
		case errors.Is(readErr, os.ErrNotExist):
			return plannedWrite{}, conflictError(fmt.Sprintf("resource %q was deleted since it was read", normalized))
		case readErr != nil:
			return plannedWrite{}, internalError(fmt.Sprintf("failed to read resource %q", normalized), readErr)
		case resource.Checksum(current) != update.Checksum:
			return plannedWrite{}, conflictError(fmt.Sprintf("resource %q was modified since it was read", normalized))
		}
	}

	if update.Data == nil {
		return plannedWrite{path: normalized, filePath: filePath, delete: true}, nil
	}

	data, err := base64.StdEncoding.DecodeString(*update.Data)
	if err != nil {
		return plannedWrite{}, validationError(fmt.Sprintf("resource %q data is not valid base64", normalized), err)
	}
	if len(data) > r.maxFileSize {
		return plannedWrite{}, tooLargeError(fmt.Sprintf("resource %q is %d bytes, the limit is %d", normalized, len(data), r.maxFileSize))
	}
	return plannedWrite{path: normalized, filePath: filePath, data: data}, nil
}

func (r *LocalResourceRepository) writeFile(write plannedWrite) error {
	dir := filepath.Dir(write.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return internalError("failed to create resource directory", err)
	}

	tempFile, err := os.CreateTemp(dir, ".portalkit-tmp-*")
	if err != nil {
		return internalError("failed to create temporary file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(write.data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write temporary file", err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to finalize temporary file", err)
	}
	if err := os.Rename(tempPath, write.filePath); err != nil {
		_ = os.Remove(tempPath)
		return internalError(fmt.Sprintf("failed to replace resource %q", write.path), err)
	}
	return nil
}

func (r *LocalResourceRepository) removeFile(write plannedWrite) error {
	if err := os.Remove(write.filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return internalError(fmt.Sprintf("failed to remove resource %q", write.path), err)
	}
	if err := r.cleanupEmptyParents(filepath.Dir(write.filePath)); err != nil {
		r.logger.Warn("failed to prune empty directories", zap.String("path", write.path), zap.Error(err))
	}
	return nil
}

// ReadConfig reads the configuration document of the working copy.
func (r *LocalResourceRepository) ReadConfig(ctx context.Context) (repository.ConfigDocument, error) {
	files, err := r.ReadResources(ctx, []string{repository.ConfigPath})
	if err != nil {
		return repository.ConfigDocument{}, err
	}
	if files[0].Data == nil {
		return repository.ConfigDocument{}, notFoundError(fmt.Sprintf("%s not found in working copy", repository.ConfigPath))
	}
	data, err := base64.StdEncoding.DecodeString(*files[0].Data)
	if err != nil {
		return repository.ConfigDocument{}, internalError("failed to decode configuration", err)
	}
	return repository.ConfigDocument{Data: string(data), Checksum: files[0].Checksum}, nil
}

func (r *LocalResourceRepository) WriteConfig(ctx context.Context, data string, checksum string) error {
	if len(data) > repository.MaxConfigSize {
		return tooLargeError(fmt.Sprintf("%s is %d bytes, the limit is %d", repository.ConfigPath, len(data), repository.MaxConfigSize))
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	return r.WriteResources(ctx, []repository.FileUpdate{{
		Path:     repository.ConfigPath,
		Data:     &encoded,
		Checksum: checksum,
	}}, checksum == "")
}
