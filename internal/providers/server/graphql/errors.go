package graphql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/portalkit/portalkit/faults"
)

// gqlError is one entry of a GraphQL "errors" array. The portal API puts
// its error reason in extensions.
type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		ErrorName string         `json:"errorName"`
		Reason    string         `json:"reason"`
		Info      map[string]any `json:"info"`
	} `json:"extensions"`
}

func (e gqlError) category() faults.ErrorCategory {
	switch e.Extensions.Reason {
	case "ResourceUpdateConflict":
		return faults.ConflictError
	case "ResourceTooLarge":
		return faults.TooLargeError
	case "Unauthenticated", "Forbidden":
		return faults.AuthError
	case "AppNotFound", "NotFound":
		return faults.NotFoundError
	case "ValidationFailed", "Invalid", "UnsupportedImageFile", "InvalidConfiguration":
		return faults.ValidationError
	}

	switch e.Extensions.ErrorName {
	case "Unauthorized", "Forbidden":
		return faults.AuthError
	case "NotFound":
		return faults.NotFoundError
	case "Invalid", "BadRequest":
		return faults.ValidationError
	case "RequestEntityTooLarge":
		return faults.TooLargeError
	}
	return faults.TransportError
}

// classifyGraphQLErrors maps the first error to a category and keeps the
// other messages in the cause.
func classifyGraphQLErrors(gqlErrors []gqlError) error {
	first := gqlErrors[0]
	message := strings.TrimSpace(first.Message)
	if message == "" {
		message = "graphql request failed"
	}
	if path, ok := first.Extensions.Info["path"].(string); ok && path != "" {
		message = fmt.Sprintf("%s (path %s)", message, path)
	}

	var cause error
	if len(gqlErrors) > 1 {
		rest := make([]error, 0, len(gqlErrors)-1)
		for _, item := range gqlErrors[1:] {
			rest = append(rest, errors.New(item.Message))
		}
		cause = errors.Join(rest...)
	}
	return faults.NewTypedError(first.category(), message, cause)
}

func classifyStatusError(statusCode int, body []byte) error {
	message := fmt.Sprintf("graphql endpoint returned status %d: %s", statusCode, summarizeBody(body))

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return faults.NewTypedError(faults.AuthError, message, nil)
	case http.StatusNotFound:
		return faults.NewTypedError(faults.NotFoundError, message, nil)
	case http.StatusRequestEntityTooLarge:
		return faults.NewTypedError(faults.TooLargeError, message, nil)
	}
	if statusCode >= 400 && statusCode < 500 {
		return faults.NewTypedError(faults.ValidationError, message, nil)
	}
	return faults.NewTypedError(faults.TransportError, message, nil)
}

func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}
	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(message string) error {
	return faults.NewTypedError(faults.NotFoundError, message, nil)
}

func transportError(message string, cause error) error {
	return faults.NewTypedError(faults.TransportError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}

func tooLargeError(message string) error {
	return faults.NewTypedError(faults.TooLargeError, message, nil)
}
