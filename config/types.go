package config

import (
	"os"
	"strings"
)

type ContextSelection struct {
	Name      string
	Overrides map[string]string
}

const (
	ContextFileEnvVar         = "PORTALKIT_CONTEXTS_FILE"
	EndpointEnvVar            = "PORTALKIT_ENDPOINT"
	AppIDEnvVar               = "PORTALKIT_APP_ID"
	TokenEnvVar               = "PORTALKIT_TOKEN"
	DefaultContextCatalogPath = "~/.portalkit/contexts.yaml"
)

// Override keys accepted by ContextSelection.Overrides.
const (
	OverrideBackendEndpoint   = "backend.endpoint"
	OverrideBackendAppID      = "backend.app-id"
	OverrideBackendToken      = "backend.auth.token"
	OverrideFilesystemBaseDir = "repository.filesystem.base-dir"
	OverrideGitBaseDir        = "repository.git.local.base-dir"
)

type ContextCatalog struct {
	Contexts   []Context `json:"contexts" yaml:"contexts"`
	CurrentCtx string    `json:"current-ctx" yaml:"current-ctx"`
}

type Context struct {
	Name        string            `json:"name" yaml:"name"`
	Backend     *Backend          `json:"backend,omitempty" yaml:"backend,omitempty"`
	Repository  Repository        `json:"repository" yaml:"repository"`
	Locales     []string          `json:"locales,omitempty" yaml:"locales,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// Backend is the application backend the context synchronizes with.
type Backend struct {
	Endpoint  string       `json:"endpoint" yaml:"endpoint"`
	AppID     string       `json:"app-id" yaml:"app-id"`
	Auth      *BackendAuth `json:"auth,omitempty" yaml:"auth,omitempty"`
	RateLimit *RateLimit   `json:"rate-limit,omitempty" yaml:"rate-limit,omitempty"`
	TLS       *TLS         `json:"tls,omitempty" yaml:"tls,omitempty"`
	Timeout   string       `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type BackendAuth struct {
	Token    string `json:"token,omitempty" yaml:"token,omitempty"`
	TokenEnv string `json:"token-env,omitempty" yaml:"token-env,omitempty"`
}

// ResolveToken returns the literal token, or the value of TokenEnv.
func (a *BackendAuth) ResolveToken() string {
	if a == nil {
		return ""
	}
	if token := strings.TrimSpace(a.Token); token != "" {
		return token
	}
	if a.TokenEnv != "" {
		return strings.TrimSpace(os.Getenv(a.TokenEnv))
	}
	return ""
}

type RateLimit struct {
	RequestsPerSecond float64 `json:"requests-per-second,omitempty" yaml:"requests-per-second,omitempty"`
	Burst             int     `json:"burst,omitempty" yaml:"burst,omitempty"`
}

type Repository struct {
	Git         *GitRepository        `json:"git,omitempty" yaml:"git,omitempty"`
	Filesystem  *FilesystemRepository `json:"filesystem,omitempty" yaml:"filesystem,omitempty"`
	MaxFileSize int                   `json:"max-file-size,omitempty" yaml:"max-file-size,omitempty"`
}

// BaseDir returns the working copy directory of whichever repository is set.
func (r Repository) BaseDir() string {
	switch {
	case r.Git != nil:
		return r.Git.Local.BaseDir
	case r.Filesystem != nil:
		return r.Filesystem.BaseDir
	default:
		return ""
	}
}

type GitRepository struct {
	Local  GitLocal   `json:"local" yaml:"local"`
	Author *GitAuthor `json:"author,omitempty" yaml:"author,omitempty"`
}

type GitLocal struct {
	BaseDir  string `json:"base-dir" yaml:"base-dir"`
	AutoInit *bool  `json:"auto-init,omitempty" yaml:"auto-init,omitempty"`
}

func (g GitLocal) AutoInitEnabled() bool {
	if g.AutoInit == nil {
		return true
	}
	return *g.AutoInit
}

type GitAuthor struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type FilesystemRepository struct {
	BaseDir string `json:"base-dir" yaml:"base-dir"`
}

type TLS struct {
	CACertFile         string `json:"ca-cert-file,omitempty" yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `json:"client-cert-file,omitempty" yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `json:"client-key-file,omitempty" yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `json:"insecure-skip-verify,omitempty" yaml:"insecure-skip-verify,omitempty"`
}
