package resource

import (
	"fmt"
	"sort"

	"golang.org/x/text/language"
)

// ValidateLocale accepts canonical BCP 47 tags only, so a locale renders to
// exactly one resource path.
func ValidateLocale(tag string) error {
	parsed, err := language.Parse(tag)
	if err != nil {
		return validationError(fmt.Sprintf("invalid BCP 47 tag %q", tag), err)
	}
	if canonical := parsed.String(); canonical != tag {
		return validationError(fmt.Sprintf("non-canonical BCP 47 tag: %v != %v", tag, canonical), nil)
	}
	return nil
}

// NormalizeLocales validates, de-duplicates and sorts locales.
func NormalizeLocales(locales []string) ([]string, error) {
	seen := make(map[string]struct{}, len(locales))
	normalized := make([]string, 0, len(locales))
	for _, locale := range locales {
		if err := ValidateLocale(locale); err != nil {
			return nil, err
		}
		if _, ok := seen[locale]; ok {
			continue
		}
		seen[locale] = struct{}{}
		normalized = append(normalized, locale)
	}
	sort.Strings(normalized)
	return normalized, nil
}
