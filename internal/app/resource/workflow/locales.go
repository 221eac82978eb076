package workflow

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/portalkit/portalkit/debugctx"
	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

// DefaultFallbackLanguage is the language an app without a localization
// section is served in.
const DefaultFallbackLanguage = "en"

// Localization is the localization section of the app configuration.
type Localization struct {
	FallbackLanguage   string   `yaml:"fallback_language"`
	SupportedLanguages []string `yaml:"supported_languages"`
}

// Fallback returns the configured fallback language or the default one.
func (l Localization) Fallback() string {
	if fallback := strings.TrimSpace(l.FallbackLanguage); fallback != "" {
		return fallback
	}
	return DefaultFallbackLanguage
}

// ParseLocalization reads the localization section of an app configuration
// document. Other sections are ignored.
func ParseLocalization(data string) (Localization, error) {
	var document struct {
		Localization Localization `yaml:"localization"`
	}
	if err := yaml.NewDecoder(strings.NewReader(data)).Decode(&document); err != nil {
		if errors.Is(err, io.EOF) {
			return Localization{}, nil
		}
		return Localization{}, faults.NewValidationError(repository.ConfigPath+" is not valid YAML", err)
	}
	return document.Localization, nil
}

// ResolveLocales picks the locales a command works on: the requested ones,
// then the context ones, then the supported languages of the first config
// source that has a configuration document, then the default language.
func ResolveLocales(ctx context.Context, requested []string, contextLocales []string, sources ...repository.ConfigReader) ([]string, error) {
	logger := debugctx.Logger(ctx)

	if len(requested) > 0 {
		return resource.NormalizeLocales(requested)
	}
	if len(contextLocales) > 0 {
		return resource.NormalizeLocales(contextLocales)
	}

	for _, source := range sources {
		if source == nil {
			continue
		}
		document, err := source.ReadConfig(ctx)
		if err != nil {
			if faults.IsCategory(err, faults.NotFoundError) {
				continue
			}
			return nil, err
		}

		localization, err := ParseLocalization(document.Data)
		if err != nil {
			return nil, err
		}
		locales := localization.SupportedLanguages
		if len(locales) == 0 {
			locales = []string{localization.Fallback()}
		}
		logger.Debug("resolved locales from app configuration", zap.Strings("locales", locales))
		return resource.NormalizeLocales(locales)
	}

	return []string{DefaultFallbackLanguage}, nil
}
