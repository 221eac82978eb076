package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/faults"
)

func TestDecodeCatalogSuccess(t *testing.T) {
	t.Parallel()

	contextCatalog, err := decodeCatalog([]byte(validContextCatalogYAML))
	if err != nil {
		t.Fatalf("decodeCatalog returned error: %v", err)
	}
	if len(contextCatalog.Contexts) != 1 {
		t.Fatalf("expected 1 context, got %d", len(contextCatalog.Contexts))
	}
	dev := contextCatalog.Contexts[0]
	if contextCatalog.CurrentCtx != "dev" || dev.Backend == nil || dev.Backend.AppID != "my-app" {
		t.Fatalf("unexpected catalog %#v", contextCatalog)
	}
	if len(dev.Locales) != 2 || dev.Locales[1] != "zh-HK" {
		t.Fatalf("unexpected locales %v", dev.Locales)
	}
}

func TestDecodeCatalogEmptyDocument(t *testing.T) {
	t.Parallel()

	contextCatalog, err := decodeCatalog(nil)
	if err != nil || len(contextCatalog.Contexts) != 0 {
		t.Fatalf("decodeCatalog(nil) = %#v, %v", contextCatalog, err)
	}
}

func TestDecodeCatalogRejectsUnknownField(t *testing.T) {
	t.Parallel()

	invalidYAML := `
contexts:
  - name: dev
    repository:
      filesystem:
        base-dir: /tmp/repo
        unknown-key: true
current-ctx: dev
`
	_, err := decodeCatalog([]byte(invalidYAML))
	assertTypedCategory(t, err, faults.ValidationError)
}

func TestValidateCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catalog config.ContextCatalog
		wantErr string
	}{
		{
			name: "current_context_missing",
			catalog: config.ContextCatalog{
				Contexts:   []config.Context{{Name: "dev", Repository: validFilesystemRepository()}},
				CurrentCtx: "prod",
			},
			wantErr: "does not match any context",
		},
		{
			name: "duplicate_names",
			catalog: config.ContextCatalog{
				Contexts: []config.Context{
					{Name: "dev", Repository: validFilesystemRepository()},
					{Name: "dev", Repository: validFilesystemRepository()},
				},
				CurrentCtx: "dev",
			},
			wantErr: "duplicate context name",
		},
		{
			name:    "current_without_contexts",
			catalog: config.ContextCatalog{CurrentCtx: "dev"},
			wantErr: "current-ctx must be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateCatalog(tt.catalog)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateConfigRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.Context
	}{
		{
			name: "repository_multiple_backends",
			cfg: config.Context{
				Name: "dev",
				Repository: config.Repository{
					Git:        &config.GitRepository{Local: config.GitLocal{BaseDir: "/tmp/repo"}},
					Filesystem: &config.FilesystemRepository{BaseDir: "/tmp/repo"},
				},
			},
		},
		{
			name: "repository_missing",
			cfg:  config.Context{Name: "dev"},
		},
		{
			name: "git_author_incomplete",
			cfg: config.Context{
				Name: "dev",
				Repository: config.Repository{Git: &config.GitRepository{
					Local:  config.GitLocal{BaseDir: "/tmp/repo"},
					Author: &config.GitAuthor{Name: "portal"},
				}},
			},
		},
		{
			name: "backend_relative_endpoint",
			cfg: config.Context{
				Name:       "dev",
				Repository: validFilesystemRepository(),
				Backend:    &config.Backend{Endpoint: "/api", AppID: "my-app"},
			},
		},
		{
			name: "backend_missing_app_id",
			cfg: config.Context{
				Name:       "dev",
				Repository: validFilesystemRepository(),
				Backend:    &config.Backend{Endpoint: "https://portal.example.com"},
			},
		},
		{
			name: "backend_both_token_sources",
			cfg: config.Context{
				Name:       "dev",
				Repository: validFilesystemRepository(),
				Backend: &config.Backend{
					Endpoint: "https://portal.example.com",
					AppID:    "my-app",
					Auth:     &config.BackendAuth{Token: "x", TokenEnv: "PORTAL_TOKEN"},
				},
			},
		},
		{
			name: "backend_bad_timeout",
			cfg: config.Context{
				Name:       "dev",
				Repository: validFilesystemRepository(),
				Backend:    &config.Backend{Endpoint: "https://portal.example.com", AppID: "my-app", Timeout: "soon"},
			},
		},
		{
			name: "non_canonical_locale",
			cfg: config.Context{
				Name:       "dev",
				Repository: validFilesystemRepository(),
				Locales:    []string{"zh_HK"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertTypedCategory(t, validateConfig(tt.cfg), faults.ValidationError)
		})
	}
}

func TestValidateConfigAllowsMissingBackend(t *testing.T) {
	t.Parallel()

	if err := validateConfig(config.Context{Name: "offline", Repository: validFilesystemRepository()}); err != nil {
		t.Fatalf("expected backend to be optional, got error: %v", err)
	}
}

func TestResolveCatalogPathDefaultAndEnv(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("failed to resolve home dir: %v", err)
	}

	resolvedDefault, err := resolveCatalogPath(config.DefaultContextCatalogPath)
	if err != nil {
		t.Fatalf("resolveCatalogPath default failed: %v", err)
	}
	if expected := filepath.Join(home, ".portalkit", "contexts.yaml"); resolvedDefault != expected {
		t.Fatalf("expected %q, got %q", expected, resolvedDefault)
	}

	envPath := filepath.Join(t.TempDir(), "contexts.yaml")
	t.Setenv(config.ContextFileEnvVar, envPath)
	resolvedFromEnv, err := resolveCatalogPath("")
	if err != nil {
		t.Fatalf("resolveCatalogPath env failed: %v", err)
	}
	if resolvedFromEnv != envPath {
		t.Fatalf("expected env path %q, got %q", envPath, resolvedFromEnv)
	}
}

func TestResolveContextSelectionAndPrecedence(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, selectionContextCatalogYAML)
	contextService := NewFileContextService(path)

	t.Run("explicit_context_selected", func(t *testing.T) {
		t.Parallel()

		resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: "git"})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolved.Name != "git" || resolved.Repository.Git == nil {
			t.Fatalf("unexpected resolved context %#v", resolved)
		}
	})

	t.Run("empty_name_uses_current_context", func(t *testing.T) {
		t.Parallel()

		resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolved.Name != "fs" {
			t.Fatalf("expected current context fs, got %q", resolved.Name)
		}
		if resolved.Backend.Endpoint != "https://portal.example.com" {
			t.Fatalf("expected trailing slash to be trimmed, got %q", resolved.Backend.Endpoint)
		}
	})

	t.Run("unknown_context_returns_not_found", func(t *testing.T) {
		t.Parallel()

		_, err := contextService.ResolveContext(context.Background(), config.ContextSelection{Name: "missing"})
		assertTypedCategory(t, err, faults.NotFoundError)
		if !strings.Contains(err.Error(), `context "missing" not found`) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("overrides_take_precedence", func(t *testing.T) {
		t.Parallel()

		resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
			Name: "fs",
			Overrides: map[string]string{
				config.OverrideFilesystemBaseDir: "/tmp/override",
				config.OverrideBackendAppID:      "other-app",
				config.OverrideBackendToken:      "override-token",
			},
		})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolved.Repository.Filesystem.BaseDir != "/tmp/override" {
			t.Fatalf("expected override base-dir, got %q", resolved.Repository.Filesystem.BaseDir)
		}
		if resolved.Backend.AppID != "other-app" || resolved.Backend.Auth.ResolveToken() != "override-token" {
			t.Fatalf("unexpected backend %#v", resolved.Backend)
		}
	})

	t.Run("overrides_create_backend", func(t *testing.T) {
		t.Parallel()

		resolved, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
			Name: "git",
			Overrides: map[string]string{
				config.OverrideBackendEndpoint: "http://localhost:3100",
				config.OverrideBackendAppID:    "local",
			},
		})
		if err != nil {
			t.Fatalf("ResolveContext returned error: %v", err)
		}
		if resolved.Backend == nil || resolved.Backend.Endpoint != "http://localhost:3100" {
			t.Fatalf("unexpected backend %#v", resolved.Backend)
		}
	})

	t.Run("override_for_unconfigured_repository_fails", func(t *testing.T) {
		t.Parallel()

		_, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
			Name:      "git",
			Overrides: map[string]string{config.OverrideFilesystemBaseDir: "/tmp/x"},
		})
		assertTypedCategory(t, err, faults.ValidationError)
	})

	t.Run("unknown_override_fails", func(t *testing.T) {
		t.Parallel()

		_, err := contextService.ResolveContext(context.Background(), config.ContextSelection{
			Overrides: map[string]string{"unknown.key": "value"},
		})
		if err == nil || !strings.Contains(err.Error(), "unknown override key") {
			t.Fatalf("expected unknown override error, got %v", err)
		}
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		config.EndpointEnvVar: "https://portal.example.com",
		config.TokenEnvVar:    "secret",
	}
	overrides := config.EnvOverrides(func(key string) string { return env[key] })
	if len(overrides) != 2 ||
		overrides[config.OverrideBackendEndpoint] != "https://portal.example.com" ||
		overrides[config.OverrideBackendToken] != "secret" {
		t.Fatalf("unexpected overrides %v", overrides)
	}
}

func TestBackendAuthResolveToken(t *testing.T) {
	t.Setenv("PORTALKIT_TEST_TOKEN", " from-env ")

	tests := []struct {
		name string
		auth *config.BackendAuth
		want string
	}{
		{name: "nil", auth: nil, want: ""},
		{name: "literal", auth: &config.BackendAuth{Token: "literal"}, want: "literal"},
		{name: "env", auth: &config.BackendAuth{TokenEnv: "PORTALKIT_TEST_TOKEN"}, want: "from-env"},
		{name: "unset_env", auth: &config.BackendAuth{TokenEnv: "PORTALKIT_TEST_UNSET"}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.auth.ResolveToken(); got != tt.want {
				t.Fatalf("ResolveToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileContextServiceCreateWritesUserOnlyCatalogPermissions(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX file mode semantics are not portable on Windows")
	}

	path := filepath.Join(t.TempDir(), "nested", "contexts.yaml")
	contextService := NewFileContextService(path)

	if err := contextService.Create(context.Background(), config.Context{Name: "dev", Repository: validFilesystemRepository()}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat catalog: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected 0600 permissions, got %#o", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected only the catalog file, got %v, %v", entries, err)
	}
}

func TestFileContextServiceLoadCatalogNormalizesPermissiveFileMode(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("POSIX file mode semantics are not portable on Windows")
	}

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(validContextCatalogYAML), 0o644); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}

	if _, err := NewFileContextService(path).List(context.Background()); err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat catalog: %v", err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Fatalf("expected normalized 0600 permissions, got %#o", got)
	}
}

func TestContextServiceMissingCatalogBehaviors(t *testing.T) {
	t.Parallel()

	contextService := NewFileContextService(filepath.Join(t.TempDir(), "contexts.yaml"))
	ctx := context.Background()

	items, err := contextService.List(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("List() = %v, %v", items, err)
	}

	_, err = contextService.GetCurrent(ctx)
	assertTypedCategory(t, err, faults.NotFoundError)

	_, err = contextService.ResolveContext(ctx, config.ContextSelection{})
	assertTypedCategory(t, err, faults.NotFoundError)

	assertTypedCategory(t, contextService.SetCurrent(ctx, "missing"), faults.NotFoundError)
	assertTypedCategory(t, contextService.Delete(ctx, "missing"), faults.NotFoundError)
	assertTypedCategory(t, contextService.Update(ctx, config.Context{Name: "missing", Repository: validFilesystemRepository()}), faults.NotFoundError)
}

func TestContextServiceCRUDLifecycle(t *testing.T) {
	t.Parallel()

	contextService := NewFileContextService(filepath.Join(t.TempDir(), "contexts.yaml"))
	ctx := context.Background()

	dev := config.Context{
		Name:       "dev",
		Repository: config.Repository{Filesystem: &config.FilesystemRepository{BaseDir: "/tmp/dev"}},
	}
	if err := contextService.Create(ctx, dev); err != nil {
		t.Fatalf("Create(dev) returned error: %v", err)
	}
	assertTypedCategory(t, contextService.Create(ctx, dev), faults.ValidationError)

	prod := config.Context{
		Name:       "prod",
		Backend:    &config.Backend{Endpoint: "https://portal.example.com/", AppID: "prod-app"},
		Repository: config.Repository{Git: &config.GitRepository{Local: config.GitLocal{BaseDir: "/tmp/prod"}}},
		Locales:    []string{"fr", "en", "fr"},
	}
	if err := contextService.Create(ctx, prod); err != nil {
		t.Fatalf("Create(prod) returned error: %v", err)
	}

	current, err := contextService.GetCurrent(ctx)
	if err != nil || current.Name != "dev" {
		t.Fatalf("GetCurrent() = %q, %v", current.Name, err)
	}

	if err := contextService.SetCurrent(ctx, "prod"); err != nil {
		t.Fatalf("SetCurrent(prod) returned error: %v", err)
	}
	current, err = contextService.GetCurrent(ctx)
	if err != nil || current.Name != "prod" {
		t.Fatalf("GetCurrent() = %q, %v", current.Name, err)
	}
	if strings.Join(current.Locales, ",") != "en,fr" {
		t.Fatalf("expected normalized locales, got %v", current.Locales)
	}
	if current.Backend.Endpoint != "https://portal.example.com" {
		t.Fatalf("expected normalized endpoint, got %q", current.Backend.Endpoint)
	}

	updated := prod
	updated.Repository = config.Repository{Filesystem: &config.FilesystemRepository{BaseDir: "/tmp/stage"}}
	if err := contextService.Update(ctx, updated); err != nil {
		t.Fatalf("Update(prod) returned error: %v", err)
	}
	resolved, err := contextService.ResolveContext(ctx, config.ContextSelection{Name: "prod"})
	if err != nil || resolved.Repository.BaseDir() != "/tmp/stage" {
		t.Fatalf("ResolveContext(prod) = %#v, %v", resolved.Repository, err)
	}

	if err := contextService.Delete(ctx, "prod"); err != nil {
		t.Fatalf("Delete(prod) returned error: %v", err)
	}
	current, err = contextService.GetCurrent(ctx)
	if err != nil || current.Name != "dev" {
		t.Fatalf("expected fallback current context dev, got %q, %v", current.Name, err)
	}

	if err := contextService.Delete(ctx, "dev"); err != nil {
		t.Fatalf("Delete(dev) returned error: %v", err)
	}
	items, err := contextService.List(ctx)
	if err != nil || len(items) != 0 {
		t.Fatalf("expected empty catalog, got %#v, %v", items, err)
	}
	_, err = contextService.GetCurrent(ctx)
	assertTypedCategory(t, err, faults.NotFoundError)
}

func TestLoadCatalogRejectsInvalidFile(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, "contexts:\n  - name: dev\ncurrent-ctx: dev\n")
	_, err := NewFileContextService(path).List(context.Background())
	assertTypedCategory(t, err, faults.ValidationError)
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "contexts.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test catalog: %v", err)
	}
	return path
}

func assertTypedCategory(t *testing.T, err error, category faults.ErrorCategory) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %q error, got nil", category)
	}
	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) {
		t.Fatalf("expected typed error, got %T", err)
	}
	if typedErr.Category != category {
		t.Fatalf("expected %q category, got %q", category, typedErr.Category)
	}
}

func validFilesystemRepository() config.Repository {
	return config.Repository{
		Filesystem: &config.FilesystemRepository{BaseDir: "/tmp/repo"},
	}
}

const validContextCatalogYAML = `
contexts:
  - name: dev
    backend:
      endpoint: https://portal.example.com
      app-id: my-app
      auth:
        token-env: PORTALKIT_DEV_TOKEN
      rate-limit:
        requests-per-second: 5
        burst: 10
      timeout: 30s
    repository:
      filesystem:
        base-dir: /tmp/repo
    locales: [en, zh-HK]
current-ctx: dev
`

const selectionContextCatalogYAML = `
contexts:
  - name: fs
    backend:
      endpoint: https://portal.example.com/
      app-id: my-app
      auth:
        token: secret-token
    repository:
      filesystem:
        base-dir: /tmp/repo

  - name: git
    repository:
      git:
        local:
          base-dir: /tmp/repo
        author:
          name: Portal Bot
          email: portal@example.com

current-ctx: fs
`
