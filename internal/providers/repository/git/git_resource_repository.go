package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/providers/repository/fsstore"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

var _ repository.ResourceStore = (*GitResourceRepository)(nil)
var _ repository.RepositorySync = (*GitResourceRepository)(nil)
var _ repository.RepositoryCommitter = (*GitResourceRepository)(nil)
var _ repository.RepositoryHistoryReader = (*GitResourceRepository)(nil)
var _ repository.ConfigReader = (*GitResourceRepository)(nil)
var _ repository.ConfigWriter = (*GitResourceRepository)(nil)

const (
	defaultAuthorName  = "portalkit"
	defaultAuthorEmail = "portalkit@local"
)

// GitResourceRepository is a working copy that records every write as a
// git commit.
type GitResourceRepository struct {
	local    *fsstore.LocalResourceRepository
	baseDir  string
	author   config.GitAuthor
	autoInit bool
	logger   *zap.Logger
	now      func() time.Time
}

func NewGitResourceRepository(repoConfig config.GitRepository, logger *zap.Logger, opts ...fsstore.Option) *GitResourceRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	author := config.GitAuthor{Name: defaultAuthorName, Email: defaultAuthorEmail}
	if repoConfig.Author != nil {
		author = *repoConfig.Author
	}

	return &GitResourceRepository{
		local:    fsstore.NewLocalResourceRepository(repoConfig.Local.BaseDir, append([]fsstore.Option{fsstore.WithLogger(logger)}, opts...)...),
		baseDir:  repoConfig.Local.BaseDir,
		author:   author,
		autoInit: repoConfig.Local.AutoInitEnabled(),
		logger:   logger,
		now:      time.Now,
	}
}

func (r *GitResourceRepository) BaseDir() string {
	return r.local.BaseDir()
}

func (r *GitResourceRepository) ReadResources(ctx context.Context, paths []string) ([]repository.RemoteFile, error) {
	return r.local.ReadResources(ctx, paths)
}

func (r *GitResourceRepository) ListPaths(ctx context.Context) ([]string, error) {
	return r.local.ListPaths(ctx)
}

func (r *GitResourceRepository) ReadConfig(ctx context.Context) (repository.ConfigDocument, error) {
	return r.local.ReadConfig(ctx)
}

// WriteResources applies the updates to the working copy and commits them.
func (r *GitResourceRepository) WriteResources(ctx context.Context, updates []repository.FileUpdate, ignoreConflict bool) error {
	if _, err := r.openRepositoryForOperation(ctx); err != nil {
		return err
	}
	if err := r.local.WriteResources(ctx, updates, ignoreConflict); err != nil {
		return err
	}
	_, err := r.Commit(ctx, writeCommitMessage(updates))
	return err
}

func (r *GitResourceRepository) WriteConfig(ctx context.Context, data string, checksum string) error {
	if _, err := r.openRepositoryForOperation(ctx); err != nil {
		return err
	}
	if err := r.local.WriteConfig(ctx, data, checksum); err != nil {
		return err
	}
	_, err := r.Commit(ctx, "portalkit: update "+repository.ConfigPath)
	return err
}

// Commit stages every change of the working copy, deletions included. It
// reports false when there was nothing to commit.
func (r *GitResourceRepository) Commit(ctx context.Context, message string) (bool, error) {
	repo, err := r.openRepositoryForOperation(ctx)
	if err != nil {
		return false, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, internalError("failed to open git worktree", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return false, internalError("failed to inspect git worktree status", err)
	}
	if status.IsClean() {
		return false, nil
	}

	if err := worktree.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return false, internalError("failed to stage git changes", err)
	}

	commitMessage := strings.TrimSpace(message)
	if commitMessage == "" {
		commitMessage = "portalkit: update working copy"
	}

	hash, err := worktree.Commit(commitMessage, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  r.author.Name,
			Email: r.author.Email,
			When:  r.now(),
		},
	})
	if err != nil {
		return false, internalError("failed to commit git changes", err)
	}

	r.logger.Debug("committed working copy", zap.String("hash", hash.String()), zap.String("subject", commitMessage))
	return true, nil
}

// History lists commits newest first. Paths restrict the log to commits
// touching a path or anything below it.
func (r *GitResourceRepository) History(ctx context.Context, filter repository.HistoryFilter) ([]repository.HistoryEntry, error) {
	repo, err := r.openRepositoryForOperation(ctx)
	if err != nil {
		return nil, err
	}

	logOptions := &gogit.LogOptions{Order: gogit.LogOrderCommitterTime}
	if pathFilter := buildHistoryPathFilter(filter.Paths); pathFilter != nil {
		logOptions.PathFilter = pathFilter
	}

	iter, err := repo.Log(logOptions)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []repository.HistoryEntry{}, nil
		}
		return nil, internalError("failed to read git history", err)
	}
	defer iter.Close()

	entries := make([]repository.HistoryEntry, 0, max(filter.MaxCount, 0))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		commit, nextErr := iter.Next()
		if nextErr != nil {
			if errors.Is(nextErr, io.EOF) || errors.Is(nextErr, storer.ErrStop) {
				break
			}
			return nil, internalError("failed to iterate git history", nextErr)
		}

		entries = append(entries, historyEntryFromCommit(commit))
		if filter.MaxCount > 0 && len(entries) >= filter.MaxCount {
			break
		}
	}
	return entries, nil
}

func (r *GitResourceRepository) Init(ctx context.Context) error {
	if err := r.local.Init(ctx); err != nil {
		return err
	}

	_, err := gogit.PlainOpen(r.baseDir)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gogit.ErrRepositoryNotExists) {
		return internalError("failed to open git repository", err)
	}
	if _, err := gogit.PlainInit(r.baseDir, false); err != nil {
		return internalError("failed to initialize git repository", err)
	}
	r.logger.Debug("initialized git working copy", zap.String("baseDir", r.baseDir))
	return nil
}

func (r *GitResourceRepository) Check(ctx context.Context) error {
	if err := r.local.Check(ctx); err != nil && !faults.IsCategory(err, faults.NotFoundError) {
		return err
	}
	_, err := r.openRepositoryForOperation(ctx)
	return err
}

// SyncStatus reports whether the working copy has changes that are not
// committed yet.
func (r *GitResourceRepository) SyncStatus(ctx context.Context) (repository.SyncReport, error) {
	repo, err := r.openRepositoryForOperation(ctx)
	if err != nil {
		return repository.SyncReport{}, err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return repository.SyncReport{}, internalError("failed to open git worktree", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return repository.SyncReport{}, internalError("failed to inspect git worktree status", err)
	}

	if status.IsClean() {
		return repository.SyncReport{State: repository.SyncStateClean}, nil
	}

	changed := make([]string, 0, len(status))
	for changedPath, fileStatus := range status {
		if fileStatus.Staging == gogit.Unmodified && fileStatus.Worktree == gogit.Unmodified {
			continue
		}
		changed = append(changed, changedPath)
	}
	sort.Strings(changed)

	return repository.SyncReport{
		State:          repository.SyncStateUncommitted,
		HasUncommitted: true,
		ChangedPaths:   changed,
	}, nil
}

func (r *GitResourceRepository) openRepositoryForOperation(ctx context.Context) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpen(r.baseDir)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, internalError("failed to open git repository", err)
	}
	if !r.autoInit {
		return nil, notFoundError("local git repository is not initialized and repository.git.local.auto-init is false")
	}

	if initErr := r.Init(ctx); initErr != nil {
		return nil, initErr
	}
	repo, err = gogit.PlainOpen(r.baseDir)
	if err != nil {
		return nil, internalError("failed to open git repository after initialization", err)
	}
	return repo, nil
}

func writeCommitMessage(updates []repository.FileUpdate) string {
	written, deleted := 0, 0
	for _, update := range updates {
		if update.Data == nil {
			deleted++
		} else {
			written++
		}
	}
	return fmt.Sprintf("portalkit: write %d, delete %d resources", written, deleted)
}

func buildHistoryPathFilter(paths []string) func(string) bool {
	prefixes := make([]string, 0, len(paths))
	for _, raw := range paths {
		normalized, err := resource.NormalizePath(strings.Trim(strings.TrimSpace(raw), "/"))
		if err != nil {
			continue
		}
		prefixes = append(prefixes, normalized)
	}
	if len(prefixes) == 0 {
		return nil
	}

	return func(changedPath string) bool {
		for _, prefix := range prefixes {
			if resource.HasPathPrefix(changedPath, prefix) {
				return true
			}
		}
		return false
	}
}

func historyEntryFromCommit(commit *object.Commit) repository.HistoryEntry {
	subject, _, _ := strings.Cut(strings.ReplaceAll(commit.Message, "\r\n", "\n"), "\n")
	return repository.HistoryEntry{
		Hash:    commit.Hash.String(),
		Author:  strings.TrimSpace(commit.Author.Name),
		Date:    commit.Author.When,
		Subject: strings.TrimSpace(subject),
	}
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
