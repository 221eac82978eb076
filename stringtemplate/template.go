// Package stringtemplate renders and parses path templates such as
// "templates/{{locale}}/translation.json".
//
// A Template is an ordered list of literal segments interleaved with named
// placeholders. Rendering substitutes each placeholder in order; parsing is
// the inverse and recovers the placeholder values from a concrete string.
package stringtemplate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/portalkit/portalkit/faults"
)

const (
	openDelimiter  = "{{"
	closeDelimiter = "}}"
)

var placeholderNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Values maps placeholder names to their rendered values.
type Values map[string]string

// Template is immutable once built. The zero value renders and parses the
// empty string.
type Template struct {
	segments []string
	names    []string
	pattern  *regexp.Regexp
}

// New builds a template from literal segments and the placeholder names
// between them. len(names) must equal len(segments)-1.
func New(segments []string, names ...string) (Template, error) {
	if len(segments) == 0 {
		segments = []string{""}
	}
	if len(names) != len(segments)-1 {
		return Template{}, faults.NewValidationError(
			fmt.Sprintf("template needs %d placeholder names for %d segments, got %d", len(segments)-1, len(segments), len(names)),
			nil,
		)
	}
	for _, name := range names {
		if !placeholderNamePattern.MatchString(name) {
			return Template{}, faults.NewValidationError(fmt.Sprintf("invalid placeholder name %q", name), nil)
		}
	}

	template := Template{
		segments: append([]string(nil), segments...),
		names:    append([]string(nil), names...),
	}
	template.pattern = buildPattern(template.segments)
	return template, nil
}

// Compile parses the textual form where every "{{name}}" is a placeholder.
func Compile(source string) (Template, error) {
	segments := make([]string, 0, 2)
	names := make([]string, 0, 1)

	remaining := source
	for {
		start := strings.Index(remaining, openDelimiter)
		if start < 0 {
			if strings.Contains(remaining, closeDelimiter) {
				return Template{}, faults.NewValidationError(fmt.Sprintf("unbalanced %q in template %q", closeDelimiter, source), nil)
			}
			segments = append(segments, remaining)
			break
		}

		literal := remaining[:start]
		if strings.Contains(literal, closeDelimiter) {
			return Template{}, faults.NewValidationError(fmt.Sprintf("unbalanced %q in template %q", closeDelimiter, source), nil)
		}

		afterOpen := remaining[start+len(openDelimiter):]
		end := strings.Index(afterOpen, closeDelimiter)
		if end < 0 {
			return Template{}, faults.NewValidationError(fmt.Sprintf("unterminated placeholder in template %q", source), nil)
		}

		segments = append(segments, literal)
		names = append(names, strings.TrimSpace(afterOpen[:end]))
		remaining = afterOpen[end+len(closeDelimiter):]
	}

	return New(segments, names...)
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level template definitions.
func MustCompile(source string) Template {
	template, err := Compile(source)
	if err != nil {
		panic(err)
	}
	return template
}

// Names returns the distinct placeholder names in first-occurrence order.
func (t Template) Names() []string {
	seen := make(map[string]struct{}, len(t.names))
	names := make([]string, 0, len(t.names))
	for _, name := range t.names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// HasPlaceholder reports whether name occurs in the template.
func (t Template) HasPlaceholder(name string) bool {
	for _, candidate := range t.names {
		if candidate == name {
			return true
		}
	}
	return false
}

func (t Template) String() string {
	if len(t.segments) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString(t.segments[0])
	for idx, name := range t.names {
		builder.WriteString(openDelimiter)
		builder.WriteString(name)
		builder.WriteString(closeDelimiter)
		builder.WriteString(t.segments[idx+1])
	}
	return builder.String()
}

// Render substitutes every placeholder with its value. A placeholder without
// a value fails with a MissingParameterError.
func (t Template) Render(values Values) (string, error) {
	for _, name := range t.names {
		if _, ok := values[name]; !ok {
			return "", faults.NewValidationError(
				fmt.Sprintf("render template %q", t.String()),
				&MissingParameterError{Name: name},
			)
		}
	}
	return t.RenderPartial(values, nil), nil
}

// RenderPartial substitutes placeholders that have a value and asks fallback
// for the others. A nil fallback renders missing placeholders in their
// textual "{{name}}" form.
func (t Template) RenderPartial(values Values, fallback func(name string) string) string {
	if len(t.segments) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(t.segments[0])
	for idx, name := range t.names {
		value, ok := values[name]
		if !ok {
			if fallback != nil {
				value = fallback(name)
			} else {
				value = openDelimiter + name + closeDelimiter
			}
		}
		builder.WriteString(value)
		builder.WriteString(t.segments[idx+1])
	}
	return builder.String()
}

// Parse matches input against the whole template. It returns ok=false when
// the input does not match. A placeholder that occurs more than once must
// capture the same text every time, otherwise Parse fails with an
// InconsistentParameterError.
func (t Template) Parse(input string) (Values, bool, error) {
	pattern := t.pattern
	if pattern == nil {
		pattern = buildPattern(t.segments)
	}

	match := pattern.FindStringSubmatch(input)
	if match == nil {
		return nil, false, nil
	}

	values := make(Values, len(t.names))
	for idx, name := range t.names {
		captured := match[idx+1]
		if previous, seen := values[name]; seen && previous != captured {
			return nil, false, faults.NewValidationError(
				fmt.Sprintf("parse %q with template %q", input, t.String()),
				&InconsistentParameterError{Name: name, First: previous, Second: captured},
			)
		}
		values[name] = captured
	}
	return values, true, nil
}

func buildPattern(segments []string) *regexp.Regexp {
	if len(segments) == 0 {
		return regexp.MustCompile(`^$`)
	}

	quoted := make([]string, len(segments))
	for idx, segment := range segments {
		quoted[idx] = regexp.QuoteMeta(segment)
	}
	return regexp.MustCompile("^" + strings.Join(quoted, "(.*)") + "$")
}
