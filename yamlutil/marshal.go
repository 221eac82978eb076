package yamlutil

import (
	"bytes"

	"go.yaml.in/yaml/v3"
)

// DefaultIndent is the indentation of every YAML document portalkit writes.
const DefaultIndent = 2

// Marshal encodes v with DefaultIndent.
func Marshal(v any) ([]byte, error) {
	return MarshalWithIndent(v, DefaultIndent)
}

func MarshalWithIndent(v any, indent int) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(v); err != nil {
		_ = encoder.Close()
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
