package resource

import (
	"path"
	"strings"

	"github.com/portalkit/portalkit/faults"
)

// NormalizePath validates a backend resource path such as
// "templates/en/translation.json" and returns its clean form. Resource paths
// are relative, slash separated and never escape the application root.
func NormalizePath(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", faults.NewValidationError("resource path must not be empty", nil)
	}

	normalizedInput := strings.ReplaceAll(value, "\\", "/")
	if strings.HasPrefix(normalizedInput, "/") {
		return "", faults.NewValidationError("resource path must be relative", nil)
	}

	for _, segment := range strings.Split(normalizedInput, "/") {
		if segment == ".." {
			return "", faults.NewValidationError("resource path must not contain traversal segments", nil)
		}
	}

	cleaned := path.Clean(normalizedInput)
	if cleaned == "." {
		return "", faults.NewValidationError("resource path must name a file", nil)
	}
	if strings.HasSuffix(normalizedInput, "/") {
		return "", faults.NewValidationError("resource path must name a file", nil)
	}

	return cleaned, nil
}

// SplitPathSegments returns the segments of a normalized resource path, or
// nil when the path is invalid.
func SplitPathSegments(value string) []string {
	normalized, err := NormalizePath(value)
	if err != nil {
		return nil
	}
	return strings.Split(normalized, "/")
}

// HasPathPrefix reports whether candidate lies under the directory prefix.
func HasPathPrefix(candidate string, prefix string) bool {
	trimmedPrefix := strings.Trim(strings.TrimSpace(prefix), "/")
	if trimmedPrefix == "" {
		return true
	}

	normalized, err := NormalizePath(candidate)
	if err != nil {
		return false
	}
	return normalized == trimmedPrefix || strings.HasPrefix(normalized, trimmedPrefix+"/")
}
