package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/portalkit/portalkit/faults"
)

const (
	stdinPayload        = "-"
	MissingInputMessage = "no input: pass --payload <file> or pipe the document on stdin"

	// maxInputBytes bounds documents read from files or stdin.
	maxInputBytes = 1 << 20
)

// ReadInput returns the document named by --payload, or stdin when the flag
// is empty or "-". A terminal on stdin with no --payload is an error rather
// than a blocking read.
func ReadInput(command *cobra.Command, flags InputFlags) ([]byte, error) {
	source := "stdin"
	var reader io.Reader
	switch {
	case flags.Payload != "" && flags.Payload != stdinPayload:
		file, err := os.Open(flags.Payload)
		if err != nil {
			return nil, ValidationError(fmt.Sprintf("cannot open %s", flags.Payload), err)
		}
		defer file.Close()
		source = flags.Payload
		reader = file
	case flags.Payload == "" && IsInteractiveTerminal(command):
		return nil, ValidationError(MissingInputMessage, nil)
	default:
		reader = command.InOrStdin()
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxInputBytes+1))
	if err != nil {
		return nil, ValidationError(fmt.Sprintf("cannot read %s", source), err)
	}
	if len(data) > maxInputBytes {
		return nil, faults.NewTypedError(faults.TooLargeError, fmt.Sprintf("%s is larger than %d bytes", source, maxInputBytes), nil)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		if source == "stdin" {
			return nil, ValidationError(MissingInputMessage, nil)
		}
		return nil, ValidationError(fmt.Sprintf("%s is empty", source), nil)
	}
	return data, nil
}

// InputFormat returns the format of the input: the --format value when set,
// otherwise the one implied by the --payload extension, otherwise the default
// the command bound the flags with.
func InputFormat(flags InputFlags) string {
	if flags.Format != "" {
		return flags.Format
	}
	switch strings.ToLower(filepath.Ext(flags.Payload)) {
	case ".json":
		return OutputJSON
	case ".yaml", ".yml":
		return OutputYAML
	case ".css":
		return "css"
	default:
		return flags.fallbackFormat
	}
}

// DecodeInputData decodes a JSON or YAML document into T. Unknown fields are
// rejected in both formats.
func DecodeInputData[T any](data []byte, format string) (T, error) {
	var output T

	switch format {
	case "", OutputJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&output); err != nil {
			return output, ValidationError("input is not a valid json document", err)
		}
		if decoder.More() {
			return output, ValidationError("input holds more than one json document", nil)
		}
	case OutputYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&output); err != nil {
			return output, ValidationError("input is not a valid yaml document", err)
		}
	default:
		return output, ValidationError(fmt.Sprintf("unsupported input format %q: use json or yaml", format), nil)
	}
	return output, nil
}
