package stringtemplate

import "fmt"

// InconsistentParameterError reports a placeholder that occurs more than once
// in a template and captured different text at two of its occurrences.
type InconsistentParameterError struct {
	Name   string
	First  string
	Second string
}

func (e *InconsistentParameterError) Error() string {
	return fmt.Sprintf("inconsistent parameter %q: %q != %q", e.Name, e.First, e.Second)
}

// MissingParameterError reports a placeholder rendered without a value.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing parameter %q", e.Name)
}
