package common

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/faults"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Paths []string `json:"paths" yaml:"paths"`
}

func renderSample(w io.Writer, value sample) error {
	_, err := fmt.Fprintf(w, "%s (%d)\n", value.Name, len(value.Paths))
	return err
}

func TestWriteOutputSuppressesNilPayload(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{}
	stdout := &bytes.Buffer{}
	command.SetOut(stdout)

	var value any
	if err := WriteOutput(command, OutputOptions{Format: OutputJSON}, value, nil); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}
	if got := stdout.String(); got != "" {
		t.Fatalf("expected empty output for nil payload, got %q", got)
	}
}

func TestWriteOutputFormats(t *testing.T) {
	t.Parallel()

	value := sample{Name: "en", Paths: []string{"a", "b"}}
	tests := []struct {
		name    string
		options OutputOptions
		want    string
	}{
		{name: "auto_uses_text_renderer", options: OutputOptions{Format: OutputAuto}, want: "en (2)\n"},
		{name: "json", options: OutputOptions{Format: OutputJSON}, want: "{\n  \"name\": \"en\",\n  \"paths\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"},
		{name: "yaml", options: OutputOptions{Format: OutputYAML}, want: "name: en\npaths:\n  - a\n  - b\n"},
		{name: "jq_single_result", options: OutputOptions{Format: OutputAuto, Query: ".paths[1]"}, want: "\"b\"\n"},
		{name: "jq_many_results", options: OutputOptions{Format: OutputJSON, Query: ".paths[]"}, want: "[\n  \"a\",\n  \"b\"\n]\n"},
		{name: "jq_yaml", options: OutputOptions{Format: OutputYAML, Query: "{n: .name}"}, want: "n: en\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			command := &cobra.Command{}
			stdout := &bytes.Buffer{}
			command.SetOut(stdout)
			if err := WriteOutput(command, tt.options, value, renderSample); err != nil {
				t.Fatalf("WriteOutput returned error: %v", err)
			}
			if got := stdout.String(); got != tt.want {
				t.Fatalf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteOutputQueryErrors(t *testing.T) {
	t.Parallel()

	command := &cobra.Command{}
	command.SetOut(&bytes.Buffer{})

	err := WriteOutput(command, OutputOptions{Format: OutputJSON, Query: ".name | error"}, sample{Name: "x"}, nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
	err = WriteOutput(command, OutputOptions{Format: OutputText, Query: ".name"}, sample{Name: "x"}, renderSample)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for text output with --jq, got %v", err)
	}
}

func TestValidateOutputOptions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		path    string
		options OutputOptions
		wantErr bool
	}{
		{name: "structured command json", path: "portalkit resource get", options: OutputOptions{Format: OutputJSON}},
		{name: "text only command auto", path: "portalkit theme encode", options: OutputOptions{Format: OutputAuto}},
		{name: "text only command json rejected", path: "portalkit theme encode", options: OutputOptions{Format: OutputJSON}, wantErr: true},
		{name: "text only command jq rejected", path: "portalkit template render", options: OutputOptions{Format: OutputAuto, Query: "."}, wantErr: true},
		{name: "jq with text rejected", path: "portalkit resource list", options: OutputOptions{Format: OutputText, Query: "."}, wantErr: true},
		{name: "invalid jq rejected", path: "portalkit resource list", options: OutputOptions{Format: OutputJSON, Query: ".["}, wantErr: true},
		{name: "unknown format rejected", path: "portalkit resource list", options: OutputOptions{Format: "xml"}, wantErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateOutputOptions(testCase.path, testCase.options)
			if (err != nil) != testCase.wantErr {
				t.Fatalf("ValidateOutputOptions(%q, %#v) error=%v, wantErr=%t", testCase.path, testCase.options, err, testCase.wantErr)
			}
		})
	}
}

func TestParseAssignments(t *testing.T) {
	t.Parallel()

	values, err := ParseAssignments([]string{"locale=en", "name=a=b", "empty="})
	if err != nil {
		t.Fatalf("ParseAssignments returned error: %v", err)
	}
	if values["locale"] != "en" || values["name"] != "a=b" || values["empty"] != "" {
		t.Fatalf("unexpected values %#v", values)
	}

	for _, args := range [][]string{{"novalue"}, {"=x"}, {"a=1", "a=2"}} {
		if _, err := ParseAssignments(args); !faults.IsCategory(err, faults.ValidationError) {
			t.Fatalf("ParseAssignments(%v) expected validation error, got %v", args, err)
		}
	}
}
