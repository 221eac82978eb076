package config

import "context"

type ContextCatalogWriter interface {
	Create(ctx context.Context, cfg Context) error
	Update(ctx context.Context, cfg Context) error
	Delete(ctx context.Context, name string) error
	SetCurrent(ctx context.Context, name string) error
}

type ContextCatalogReader interface {
	List(ctx context.Context) ([]Context, error)
	GetCurrent(ctx context.Context) (Context, error)
}

type ContextResolver interface {
	ResolveContext(ctx context.Context, selection ContextSelection) (Context, error)
}

type ContextValidator interface {
	Validate(ctx context.Context, cfg Context) error
}

type ContextService interface {
	ContextCatalogWriter
	ContextCatalogReader
	ContextResolver
	ContextValidator
}

// EnvOverrides collects context overrides from the process environment.
func EnvOverrides(getenv func(string) string) map[string]string {
	overrides := map[string]string{}
	for envVar, key := range map[string]string{
		EndpointEnvVar: OverrideBackendEndpoint,
		AppIDEnvVar:    OverrideBackendAppID,
		TokenEnvVar:    OverrideBackendToken,
	} {
		if value := getenv(envVar); value != "" {
			overrides[key] = value
		}
	}
	return overrides
}
