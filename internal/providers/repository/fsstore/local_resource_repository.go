package fsstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/repository"
)

var _ repository.ResourceStore = (*LocalResourceRepository)(nil)
var _ repository.RepositorySync = (*LocalResourceRepository)(nil)
var _ repository.ConfigReader = (*LocalResourceRepository)(nil)
var _ repository.ConfigWriter = (*LocalResourceRepository)(nil)

// DefaultMaxFileSize is the largest resource the working copy accepts.
const DefaultMaxFileSize = 100 * 1024

const readConcurrency = 8

// LocalResourceRepository is a working copy with one file per resource path.
type LocalResourceRepository struct {
	baseDir     string
	maxFileSize int
	logger      *zap.Logger
}

type Option func(*LocalResourceRepository)

func WithMaxFileSize(size int) Option {
	return func(r *LocalResourceRepository) {
		if size > 0 {
			r.maxFileSize = size
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *LocalResourceRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewLocalResourceRepository(baseDir string, opts ...Option) *LocalResourceRepository {
	repo := &LocalResourceRepository{
		baseDir:     filepath.Clean(baseDir),
		maxFileSize: DefaultMaxFileSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func (r *LocalResourceRepository) BaseDir() string {
	return r.baseDir
}

func (r *LocalResourceRepository) Init(_ context.Context) error {
	if r.baseDir == "" || r.baseDir == "." {
		return validationError("repository base directory must not be empty", nil)
	}
	if err := os.MkdirAll(r.baseDir, 0o755); err != nil {
		return internalError("failed to initialize repository directory", err)
	}
	return nil
}

func (r *LocalResourceRepository) Check(_ context.Context) error {
	info, err := os.Stat(r.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return notFoundError("repository base directory does not exist")
		}
		return internalError("failed to inspect repository base directory", err)
	}
	if !info.IsDir() {
		return validationError("repository base directory is not a directory", nil)
	}
	return nil
}

func (r *LocalResourceRepository) SyncStatus(context.Context) (repository.SyncReport, error) {
	return repository.SyncReport{State: repository.SyncStateUntracked}, nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func conflictError(message string) error {
	return faults.NewTypedError(faults.ConflictError, message, nil)
}

func tooLargeError(message string) error {
	return faults.NewTypedError(faults.TooLargeError, message, nil)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
