package file

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/faults"
)

var _ config.ContextService = (*FileContextService)(nil)

// FileContextService keeps the context catalog in a single YAML file that
// only the current user can read. Every change rewrites the whole file.
type FileContextService struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

type Option func(*FileContextService)

func WithLogger(logger *zap.Logger) Option {
	return func(s *FileContextService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewFileContextService(path string, opts ...Option) *FileContextService {
	service := &FileContextService{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Path returns the resolved catalog location.
func (m *FileContextService) Path() (string, error) {
	return resolveCatalogPath(m.path)
}

func (m *FileContextService) Create(_ context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	return m.update("create", cfg.Name, func(catalog *config.ContextCatalog) error {
		if _, ok := lookup(*catalog, cfg.Name); ok {
			return validationError(fmt.Sprintf("context %q already exists", cfg.Name), nil)
		}
		catalog.Contexts = append(catalog.Contexts, cfg)
		if catalog.CurrentCtx == "" {
			catalog.CurrentCtx = cfg.Name
		}
		return nil
	})
}

func (m *FileContextService) Update(_ context.Context, cfg config.Context) error {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return err
	}
	return m.update("update", cfg.Name, func(catalog *config.ContextCatalog) error {
		idx, ok := lookup(*catalog, cfg.Name)
		if !ok {
			return contextNotFound(cfg.Name)
		}
		catalog.Contexts[idx] = cfg
		return nil
	})
}

// Delete removes a context. Deleting the current context makes the first
// remaining one current.
func (m *FileContextService) Delete(_ context.Context, name string) error {
	return m.update("delete", name, func(catalog *config.ContextCatalog) error {
		idx, ok := lookup(*catalog, name)
		if !ok {
			return contextNotFound(name)
		}
		catalog.Contexts = slices.Delete(catalog.Contexts, idx, idx+1)
		if catalog.CurrentCtx == name {
			catalog.CurrentCtx = ""
			if len(catalog.Contexts) > 0 {
				catalog.CurrentCtx = catalog.Contexts[0].Name
			}
		}
		return nil
	})
}

func (m *FileContextService) SetCurrent(_ context.Context, name string) error {
	return m.update("use", name, func(catalog *config.ContextCatalog) error {
		if _, ok := lookup(*catalog, name); !ok {
			return contextNotFound(name)
		}
		catalog.CurrentCtx = name
		return nil
	})
}

func (m *FileContextService) List(_ context.Context) ([]config.Context, error) {
	catalog, err := m.read()
	if err != nil {
		return nil, err
	}
	return slices.Clone(catalog.Contexts), nil
}

func (m *FileContextService) GetCurrent(_ context.Context) (config.Context, error) {
	catalog, err := m.read()
	if err != nil {
		return config.Context{}, err
	}
	return current(catalog, "")
}

// ResolveContext picks the named context, or the current one, and applies
// the selection overrides on top of it. The result is validated again since
// overrides may break it.
func (m *FileContextService) ResolveContext(_ context.Context, selection config.ContextSelection) (config.Context, error) {
	catalog, err := m.read()
	if err != nil {
		return config.Context{}, err
	}
	selected, err := current(catalog, selection.Name)
	if err != nil {
		return config.Context{}, err
	}

	resolved, err := applyOverrides(selected, selection.Overrides)
	if err != nil {
		return config.Context{}, err
	}
	resolved = normalizeConfig(resolved)
	if err := validateConfig(resolved); err != nil {
		return config.Context{}, err
	}
	m.logger.Debug("resolved context",
		zap.String("context", resolved.Name),
		zap.Int("overrides", len(selection.Overrides)),
	)
	return resolved, nil
}

func (m *FileContextService) Validate(_ context.Context, cfg config.Context) error {
	return validateConfig(normalizeConfig(cfg))
}

func (m *FileContextService) read() (config.ContextCatalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.Path()
	if err != nil {
		return config.ContextCatalog{}, err
	}
	return loadCatalog(path)
}

// update applies change to the stored catalog and writes the result back.
// Nothing is written when change fails.
func (m *FileContextService) update(operation string, name string, change func(*config.ContextCatalog) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path, err := m.Path()
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(path)
	if err != nil {
		return err
	}
	if err := change(&catalog); err != nil {
		return err
	}
	if err := validateCatalog(catalog); err != nil {
		return err
	}
	if err := storeCatalog(path, catalog); err != nil {
		return err
	}

	m.logger.Debug("context catalog updated",
		zap.String("operation", operation),
		zap.String("context", name),
		zap.String("path", path),
	)
	return nil
}

func lookup(catalog config.ContextCatalog, name string) (int, bool) {
	idx := slices.IndexFunc(catalog.Contexts, func(item config.Context) bool {
		return item.Name == name
	})
	return idx, idx >= 0
}

// current returns the named context, or the current one when name is empty.
func current(catalog config.ContextCatalog, name string) (config.Context, error) {
	if name == "" {
		if catalog.CurrentCtx == "" {
			return config.Context{}, notFoundError("current context not set")
		}
		name = catalog.CurrentCtx
		if idx, ok := lookup(catalog, name); ok {
			return catalog.Contexts[idx], nil
		}
		return config.Context{}, notFoundError(fmt.Sprintf("current context %q not found", name))
	}
	idx, ok := lookup(catalog, name)
	if !ok {
		return config.Context{}, contextNotFound(name)
	}
	return catalog.Contexts[idx], nil
}

func contextNotFound(name string) error {
	return notFoundError(fmt.Sprintf("context %q not found", name))
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
