package common

import "strings"

// ParseAssignments reads key=value arguments. A key given twice is rejected.
func ParseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			return nil, ValidationError("invalid assignment "+arg+": expected key=value", nil)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, ValidationError("invalid assignment "+arg+": key must not be empty", nil)
		}
		if _, exists := values[key]; exists {
			return nil, ValidationError("duplicate assignment for "+key, nil)
		}
		values[key] = value
	}
	return values, nil
}
