package resource

import (
	"fmt"
	"sort"

	"github.com/portalkit/portalkit/stringtemplate"
)

var imageExtensions = []string{".png", ".jpeg", ".gif"}

var (
	TranslationJSON = &Definition{
		Name: "translation",
		Path: stringtemplate.MustCompile("templates/{{locale}}/translation.json"),
		Kind: KindText,
	}

	ForgotPasswordEmailHTML = messageTemplate("forgot_password_email", "forgot_password_email.html")
	ForgotPasswordEmailText = messageTemplate("forgot_password_email_txt", "forgot_password_email.txt")
	ForgotPasswordSMSText   = messageTemplate("forgot_password_sms", "forgot_password_sms.txt")
	VerificationEmailHTML   = messageTemplate("verification_email", "verification_email.html")
	VerificationEmailText   = messageTemplate("verification_email_txt", "verification_email.txt")
	VerificationSMSText     = messageTemplate("verification_sms", "verification_sms.txt")
	SetupOOBEmailHTML       = messageTemplate("setup_primary_oob_email", "setup_primary_oob_email.html")
	SetupOOBEmailText       = messageTemplate("setup_primary_oob_email_txt", "setup_primary_oob_email.txt")
	SetupOOBSMSText         = messageTemplate("setup_primary_oob_sms", "setup_primary_oob_sms.txt")

	AppLogo     = imageResource("app_logo", "static/{{locale}}/app_logo{{extension}}")
	AppLogoDark = imageResource("app_logo_dark", "static/{{locale}}/app_logo_dark{{extension}}")
	Favicon     = imageResource("favicon", "static/{{locale}}/favicon{{extension}}")

	LightThemeCSS = &Definition{
		Name:     "light_theme_css",
		Path:     stringtemplate.MustCompile("static/authgear-authflowv2-light-theme.css"),
		Kind:     KindText,
		Optional: true,
	}
	DarkThemeCSS = &Definition{
		Name:     "dark_theme_css",
		Path:     stringtemplate.MustCompile("static/authgear-authflowv2-dark-theme.css"),
		Kind:     KindText,
		Optional: true,
	}

	AppConfigYAML = &Definition{
		Name: "app_config",
		Path: stringtemplate.MustCompile("authgear.yaml"),
		Kind: KindText,
	}
)

func messageTemplate(name string, file string) *Definition {
	return &Definition{
		Name:                        name,
		Path:                        stringtemplate.MustCompile("templates/{{locale}}/messages/" + file),
		Kind:                        KindText,
		UsesEffectiveDataAsFallback: true,
	}
}

func imageResource(name string, path string) *Definition {
	return &Definition{
		Name:       name,
		Path:       stringtemplate.MustCompile(path),
		Kind:       KindBinary,
		Extensions: imageExtensions,
		Optional:   true,
	}
}

// Registry is an ordered set of definitions. Lookups try definitions in
// order, so more specific templates must come first.
type Registry struct {
	definitions []*Definition
}

func NewRegistry(defs ...*Definition) (*Registry, error) {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def == nil {
			return nil, validationError("registry definition must not be nil", nil)
		}
		if _, ok := seen[def.Name]; ok {
			return nil, validationError(fmt.Sprintf("duplicate resource definition %q", def.Name), nil)
		}
		seen[def.Name] = struct{}{}
	}
	return &Registry{definitions: append([]*Definition(nil), defs...)}, nil
}

// DefaultRegistry holds the resources the portal edits.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(
		TranslationJSON,
		ForgotPasswordEmailHTML,
		ForgotPasswordEmailText,
		ForgotPasswordSMSText,
		VerificationEmailHTML,
		VerificationEmailText,
		VerificationSMSText,
		SetupOOBEmailHTML,
		SetupOOBEmailText,
		SetupOOBSMSText,
		AppLogo,
		AppLogoDark,
		Favicon,
		LightThemeCSS,
		DarkThemeCSS,
		AppConfigYAML,
	)
	if err != nil {
		panic(err)
	}
	return registry
}

func (r *Registry) Definitions() []*Definition {
	return append([]*Definition(nil), r.definitions...)
}

func (r *Registry) ByName(name string) (*Definition, bool) {
	for _, def := range r.definitions {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

// Lookup resolves a concrete path to its specifier.
func (r *Registry) Lookup(path string) (Specifier, bool, error) {
	return ParsePath(r.definitions, path)
}

// Specifiers expands every definition for the given locales.
func (r *Registry) Specifiers(locales []string) []Specifier {
	return ExpandAll(r.definitions, locales)
}

// Paths renders the concrete path of every specifier for the given locales,
// sorted.
func (r *Registry) Paths(locales []string) ([]string, error) {
	specifiers := r.Specifiers(locales)
	paths := make([]string, 0, len(specifiers))
	for _, specifier := range specifiers {
		path, err := RenderPath(specifier)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

// LocaleSpecifiers returns the specifiers that belong to one locale only.
func (r *Registry) LocaleSpecifiers(locale string) []Specifier {
	specifiers := make([]Specifier, 0)
	for _, def := range r.definitions {
		if !def.IsLocalized() {
			continue
		}
		specifiers = append(specifiers, Expand(def, locale)...)
	}
	return specifiers
}
