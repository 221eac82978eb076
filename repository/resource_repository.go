package repository

import (
	"context"
)

// ResourceReader reads resources by path. Paths without a resource are
// returned with nil Data.
type ResourceReader interface {
	ReadResources(ctx context.Context, paths []string) ([]RemoteFile, error)
}

// ResourceWriter applies updates. Unless ignoreConflict is set, an update
// with a checksum fails with a conflict when the stored content changed.
type ResourceWriter interface {
	WriteResources(ctx context.Context, updates []FileUpdate, ignoreConflict bool) error
}

// ResourceLister enumerates the paths that currently hold a resource.
type ResourceLister interface {
	ListPaths(ctx context.Context) ([]string, error)
}

// ResourceStore is a complete resource backend: the application backend or a
// local working copy.
type ResourceStore interface {
	ResourceReader
	ResourceWriter
	ResourceLister
}

// ConfigReader reads the application configuration document.
type ConfigReader interface {
	ReadConfig(ctx context.Context) (ConfigDocument, error)
}

// ConfigWriter replaces the configuration document. An empty checksum skips
// conflict detection.
type ConfigWriter interface {
	WriteConfig(ctx context.Context, data string, checksum string) error
}

// RepositorySync manages the lifecycle of a local working copy.
type RepositorySync interface {
	Init(ctx context.Context) error
	Check(ctx context.Context) error
	SyncStatus(ctx context.Context) (SyncReport, error)
}

// RepositoryCommitter records the working copy state.
type RepositoryCommitter interface {
	Commit(ctx context.Context, message string) (bool, error)
}

type RepositoryHistoryReader interface {
	History(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)
}

// BackendStore is the application backend: resources and the configuration
// document, read and written by path.
type BackendStore interface {
	ResourceReader
	ResourceWriter
	ConfigReader
	ConfigWriter
}

// WorkingCopyStore is a local copy of the application resources.
type WorkingCopyStore interface {
	ResourceStore
	ConfigReader
	ConfigWriter
}
