package resource

import (
	"strings"

	"github.com/portalkit/portalkit/stringtemplate"
)

const (
	PlaceholderLocale    = "locale"
	PlaceholderExtension = "extension"
)

// Kind tells how a resource value travels on the wire.
type Kind string

const (
	// KindText values are plain text locally and base64 on the wire.
	KindText Kind = "text"
	// KindBinary values are opaque base64 strings everywhere.
	KindBinary Kind = "binary"
)

// Definition describes one logical resource slot: where it lives, what it
// holds and which file extensions it accepts.
type Definition struct {
	Name                        string
	Path                        stringtemplate.Template
	Kind                        Kind
	Extensions                  []string
	Optional                    bool
	UsesEffectiveDataAsFallback bool
}

func (d *Definition) IsLocalized() bool {
	return d != nil && d.Path.HasPlaceholder(PlaceholderLocale)
}

func (d *Definition) hasExtensionPlaceholder() bool {
	return d != nil && d.Path.HasPlaceholder(PlaceholderExtension)
}

func (d *Definition) allowsExtension(extension string) bool {
	if len(d.Extensions) == 0 {
		return true
	}
	for _, candidate := range d.Extensions {
		if candidate == extension {
			return true
		}
	}
	return false
}

// Specifier identifies one resource: a definition plus the optional locale
// and extension that fill its path template.
type Specifier struct {
	Def       *Definition
	Locale    string
	Extension string
}

// SpecifierID is the identity key of a specifier: its path template rendered
// with the known values, leaving "{{locale}}" or "{{extension}}" in place of
// the missing ones. Two specifiers with the same id address the same slot.
func SpecifierID(s Specifier) string {
	if s.Def == nil {
		return ""
	}
	return s.Def.Path.RenderPartial(specifierValues(s), nil)
}

// RenderPath returns the concrete resource path of a specifier. It fails when
// the template needs a locale or extension the specifier does not carry.
func RenderPath(s Specifier) (string, error) {
	if s.Def == nil {
		return "", validationError("resource specifier has no definition", nil)
	}
	return s.Def.Path.Render(specifierValues(s))
}

func specifierValues(s Specifier) stringtemplate.Values {
	values := stringtemplate.Values{}
	if s.Locale != "" {
		values[PlaceholderLocale] = s.Locale
	}
	if s.Extension != "" {
		values[PlaceholderExtension] = s.Extension
	}
	return values
}

// Expand returns the specifiers of def for one locale: one per allowed
// extension, or a single specifier when the path has no extension.
func Expand(def *Definition, locale string) []Specifier {
	if def == nil {
		return nil
	}

	base := Specifier{Def: def}
	if def.IsLocalized() {
		base.Locale = locale
	}

	if !def.hasExtensionPlaceholder() || len(def.Extensions) == 0 {
		return []Specifier{base}
	}

	specifiers := make([]Specifier, 0, len(def.Extensions))
	for _, extension := range def.Extensions {
		specifier := base
		specifier.Extension = extension
		specifiers = append(specifiers, specifier)
	}
	return specifiers
}

// ExpandAll expands every definition for every locale. Definitions without a
// locale placeholder are expanded once.
func ExpandAll(defs []*Definition, locales []string) []Specifier {
	specifiers := make([]Specifier, 0, len(defs)*max(1, len(locales)))
	for _, def := range defs {
		if !def.IsLocalized() {
			specifiers = append(specifiers, Expand(def, "")...)
			continue
		}
		for _, locale := range locales {
			specifiers = append(specifiers, Expand(def, locale)...)
		}
	}
	return specifiers
}

// ParsePath finds the specifier a concrete path belongs to. The first
// definition whose template matches and whose extension is allowed wins.
func ParsePath(defs []*Definition, path string) (Specifier, bool, error) {
	for _, def := range defs {
		values, ok, err := def.Path.Parse(path)
		if err != nil {
			return Specifier{}, false, err
		}
		if !ok {
			continue
		}

		extension := values[PlaceholderExtension]
		if def.hasExtensionPlaceholder() && !def.allowsExtension(extension) {
			continue
		}
		locale := values[PlaceholderLocale]
		if def.IsLocalized() && (locale == "" || strings.Contains(locale, "/")) {
			continue
		}

		return Specifier{
			Def:       def,
			Locale:    locale,
			Extension: extension,
		}, true, nil
	}
	return Specifier{}, false, nil
}
