// Package workflowtest provides an in-memory resource store for service
// tests.
package workflowtest

import (
	"context"
	"encoding/base64"
	"fmt"
	"sort"
	"sync"

	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

// Store keeps resources as raw bytes keyed by path. Checksums follow the
// backend rule, so conflict detection behaves like the real stores.
type Store struct {
	mu        sync.Mutex
	files     map[string][]byte
	effective map[string][]byte
	writes    [][]repository.FileUpdate
}

func NewStore() *Store {
	return &Store{
		files:     map[string][]byte{},
		effective: map[string][]byte{},
	}
}

// Put stores raw content without recording a write.
func (s *Store) Put(path string, content string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = []byte(content)
	return s
}

// PutEffective sets the default content served when path is not customised.
func (s *Store) PutEffective(path string, content string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.effective[path] = []byte(content)
	return s
}

// Content returns the raw content of path.
func (s *Store) Content(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	return string(data), ok
}

// Writes returns every accepted write request in order.
func (s *Store) Writes() [][]repository.FileUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]repository.FileUpdate(nil), s.writes...)
}

func (s *Store) ReadResources(_ context.Context, paths []string) ([]repository.RemoteFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]repository.RemoteFile, 0, len(paths))
	for _, path := range paths {
		file := repository.RemoteFile{Path: path}
		if data, ok := s.files[path]; ok {
			encoded := base64.StdEncoding.EncodeToString(data)
			file.Data = &encoded
			file.Checksum = resource.Checksum(data)
		}
		if data, ok := s.effective[path]; ok {
			encoded := base64.StdEncoding.EncodeToString(data)
			file.EffectiveData = &encoded
		}
		files = append(files, file)
	}
	return files, nil
}

// WriteResources applies all updates or none.
func (s *Store) WriteResources(_ context.Context, updates []repository.FileUpdate, ignoreConflict bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	decoded := make([][]byte, len(updates))
	for idx, update := range updates {
		current, exists := s.files[update.Path]
		if !ignoreConflict && update.Checksum != "" {
			if !exists || resource.Checksum(current) != update.Checksum {
				return faults.NewTypedError(faults.ConflictError, fmt.Sprintf("resource %q changed", update.Path), nil)
			}
		}
		if update.Data == nil {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(*update.Data)
		if err != nil {
			return faults.NewValidationError(fmt.Sprintf("resource %q data is not valid base64", update.Path), err)
		}
		decoded[idx] = data
	}

	for idx, update := range updates {
		if update.Data == nil {
			delete(s.files, update.Path)
			continue
		}
		s.files[update.Path] = decoded[idx]
	}
	s.writes = append(s.writes, append([]repository.FileUpdate(nil), updates...))
	return nil
}

func (s *Store) ListPaths(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Store) ReadConfig(ctx context.Context) (repository.ConfigDocument, error) {
	files, err := s.ReadResources(ctx, []string{repository.ConfigPath})
	if err != nil {
		return repository.ConfigDocument{}, err
	}
	if files[0].Data == nil {
		return repository.ConfigDocument{}, faults.NewNotFoundError(repository.ConfigPath + " not found")
	}
	content, _ := s.Content(repository.ConfigPath)
	return repository.ConfigDocument{Data: content, Checksum: files[0].Checksum}, nil
}

func (s *Store) WriteConfig(ctx context.Context, data string, checksum string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	return s.WriteResources(ctx, []repository.FileUpdate{{
		Path:     repository.ConfigPath,
		Data:     &encoded,
		Checksum: checksum,
	}}, checksum == "")
}
