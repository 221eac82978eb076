package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/internal/cli/commandmeta"
	"github.com/portalkit/portalkit/yamlutil"
)

const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// OutputOptions select how a command result is written. Query is a jq
// expression applied to the structured form of the result.
type OutputOptions struct {
	Format string
	Query  string
}

func ValidateOutputFormat(format string) error {
	switch format {
	case OutputAuto, OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

func ValidateOutputOptions(commandPath string, options OutputOptions) error {
	if err := ValidateOutputFormat(options.Format); err != nil {
		return err
	}
	if strings.TrimSpace(options.Query) != "" {
		if options.Format == OutputText {
			return ValidationError("--jq requires structured output; use --output json, yaml, or auto", nil)
		}
		if commandmeta.OutputPolicyForPath(commandPath) == commandmeta.OutputPolicyTextOnly {
			return ValidationError("command supports only text output; --jq is not available", nil)
		}
		if _, err := gojq.Parse(options.Query); err != nil {
			return ValidationError("invalid --jq expression", err)
		}
	}
	return ValidateOutputFormatForCommandPath(commandPath, options.Format)
}

func ValidateOutputFormatForCommandPath(commandPath string, format string) error {
	switch strings.TrimSpace(format) {
	case "", OutputAuto, OutputText:
		return nil
	}

	if commandmeta.OutputPolicyForPath(commandPath) == commandmeta.OutputPolicyTextOnly {
		return ValidationError("command supports only text output; use --output text or --output auto", nil)
	}
	return nil
}

// WriteOutput renders value in the selected format. Auto renders text when a
// text renderer is given and no query is set, and JSON otherwise.
func WriteOutput[T any](command *cobra.Command, options OutputOptions, value T, renderText func(io.Writer, T) error) error {
	if isNilOutputValue(value) {
		return nil
	}

	format := options.Format
	query := strings.TrimSpace(options.Query)
	if format == "" || format == OutputAuto {
		format = OutputText
		if query != "" || renderText == nil {
			format = OutputJSON
		}
	}

	if format == OutputText {
		if query != "" {
			return ValidationError("--jq requires structured output; use --output json, yaml, or auto", nil)
		}
		if renderText != nil {
			return renderText(command.OutOrStdout(), value)
		}
		_, err := fmt.Fprintln(command.OutOrStdout(), value)
		return err
	}

	var payload any = value
	if query != "" {
		results, err := applyQuery(command.Context(), query, value)
		if err != nil {
			return err
		}
		payload = results
	}

	switch format {
	case OutputJSON:
		encoded, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(command.OutOrStdout(), string(encoded))
		return err
	case OutputYAML:
		encoded, err := yamlutil.Marshal(payload)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(command.OutOrStdout(), string(encoded))
		return err
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

func WriteText(command *cobra.Command, options OutputOptions, text string) error {
	return WriteOutput(command, options, text, func(w io.Writer, value string) error {
		_, err := fmt.Fprintln(w, value)
		return err
	})
}

// applyQuery runs query over the JSON form of value. A single result is
// returned unwrapped.
func applyQuery(ctx context.Context, query string, value any) (any, error) {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, ValidationError("invalid --jq expression", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, ValidationError("invalid --jq expression", err)
	}

	input, err := toJSONValue(value)
	if err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	iterator := code.RunWithContext(ctx, input)
	results := make([]any, 0, 1)
	for {
		item, ok := iterator.Next()
		if !ok {
			break
		}
		if itemErr, isErr := item.(error); isErr {
			return nil, ValidationError("failed to evaluate --jq expression", itemErr)
		}
		results = append(results, item)
	}

	switch len(results) {
	case 0:
		return []any{}, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func toJSONValue(value any) (any, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

func isNilOutputValue[T any](value T) bool {
	anyValue := any(value)
	if anyValue == nil {
		return true
	}

	reflected := reflect.ValueOf(anyValue)
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return reflected.IsNil()
	default:
		return false
	}
}
