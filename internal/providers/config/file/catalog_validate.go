package file

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/resource"
)

func validateCatalog(contextCatalog config.ContextCatalog) error {
	if len(contextCatalog.Contexts) == 0 {
		if contextCatalog.CurrentCtx != "" {
			return validationError("current-ctx must be empty when contexts list is empty", nil)
		}
		return nil
	}

	seen := map[string]struct{}{}
	for _, item := range contextCatalog.Contexts {
		if item.Name == "" {
			return validationError("context name must not be empty", nil)
		}
		if _, exists := seen[item.Name]; exists {
			return validationError(fmt.Sprintf("duplicate context name %q", item.Name), nil)
		}
		seen[item.Name] = struct{}{}

		if err := validateConfig(item); err != nil {
			return err
		}
	}

	if contextCatalog.CurrentCtx == "" {
		return validationError("current-ctx must be set when contexts are defined", nil)
	}
	if _, exists := seen[contextCatalog.CurrentCtx]; !exists {
		return validationError(fmt.Sprintf("current-ctx %q does not match any context", contextCatalog.CurrentCtx), nil)
	}

	return nil
}

func validateConfig(cfg config.Context) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return validationError("context name must not be empty", nil)
	}
	if err := validateRepository(cfg.Repository); err != nil {
		return err
	}
	if err := validateBackend(cfg.Backend); err != nil {
		return err
	}
	for _, locale := range cfg.Locales {
		if err := resource.ValidateLocale(locale); err != nil {
			return validationError(fmt.Sprintf("context %q locales", cfg.Name), err)
		}
	}
	return nil
}

func normalizeConfig(cfg config.Context) config.Context {
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Backend != nil {
		backend := *cfg.Backend
		backend.Endpoint = strings.TrimRight(strings.TrimSpace(backend.Endpoint), "/")
		backend.AppID = strings.TrimSpace(backend.AppID)
		cfg.Backend = &backend
	}
	if len(cfg.Locales) > 0 {
		if normalized, err := resource.NormalizeLocales(cfg.Locales); err == nil {
			cfg.Locales = normalized
		}
	}
	return cfg
}

func validateRepository(repository config.Repository) error {
	if countSet(repository.Git != nil, repository.Filesystem != nil) != 1 {
		return validationError("repository must define exactly one of git or filesystem", nil)
	}
	if repository.Git != nil {
		if repository.Git.Local.BaseDir == "" {
			return validationError("repository.git.local.base-dir is required", nil)
		}
		if author := repository.Git.Author; author != nil && (author.Name == "" || author.Email == "") {
			return validationError("repository.git.author requires name and email", nil)
		}
	}
	if repository.Filesystem != nil && repository.Filesystem.BaseDir == "" {
		return validationError("repository.filesystem.base-dir is required", nil)
	}
	if repository.MaxFileSize < 0 {
		return validationError("repository.max-file-size must not be negative", nil)
	}
	return nil
}

func validateBackend(backend *config.Backend) error {
	if backend == nil {
		return nil
	}
	if backend.Endpoint == "" {
		return validationError("backend.endpoint is required", nil)
	}
	parsed, err := url.Parse(backend.Endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return validationError("backend.endpoint must be an absolute http or https URL", err)
	}
	if backend.AppID == "" {
		return validationError("backend.app-id is required", nil)
	}
	if backend.Auth != nil && backend.Auth.Token != "" && backend.Auth.TokenEnv != "" {
		return validationError("backend.auth must define at most one of token, token-env", nil)
	}
	if limit := backend.RateLimit; limit != nil && (limit.RequestsPerSecond < 0 || limit.Burst < 0) {
		return validationError("backend.rate-limit values must not be negative", nil)
	}
	if backend.Timeout != "" {
		timeout, err := time.ParseDuration(backend.Timeout)
		if err != nil || timeout <= 0 {
			return validationError("backend.timeout must be a positive duration", err)
		}
	}
	if tls := backend.TLS; tls != nil && (tls.ClientCertFile == "") != (tls.ClientKeyFile == "") {
		return validationError("backend.tls requires both client-cert-file and client-key-file", nil)
	}
	return nil
}

func applyOverrides(cfg config.Context, overrides map[string]string) (config.Context, error) {
	for _, key := range sortedOverrideKeys(overrides) {
		value := overrides[key]
		switch key {
		case config.OverrideBackendEndpoint, config.OverrideBackendAppID, config.OverrideBackendToken:
			if cfg.Backend == nil {
				cfg.Backend = &config.Backend{}
			} else {
				backend := *cfg.Backend
				cfg.Backend = &backend
			}
			switch key {
			case config.OverrideBackendEndpoint:
				cfg.Backend.Endpoint = value
			case config.OverrideBackendAppID:
				cfg.Backend.AppID = value
			default:
				cfg.Backend.Auth = &config.BackendAuth{Token: value}
			}
		case config.OverrideGitBaseDir:
			if cfg.Repository.Git == nil {
				return config.Context{}, validationError("override repository.git.local.base-dir requires repository.git to be configured", nil)
			}
			git := *cfg.Repository.Git
			git.Local.BaseDir = value
			cfg.Repository.Git = &git
		case config.OverrideFilesystemBaseDir:
			if cfg.Repository.Filesystem == nil {
				return config.Context{}, validationError("override repository.filesystem.base-dir requires repository.filesystem to be configured", nil)
			}
			cfg.Repository.Filesystem = &config.FilesystemRepository{BaseDir: value}
		default:
			return config.Context{}, unknownOverrideError(key)
		}
	}
	return cfg, nil
}

func sortedOverrideKeys(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}
