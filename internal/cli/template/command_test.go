package template

import (
	"encoding/json"
	"testing"

	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/cli/testkit"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     string
		category faults.ErrorCategory
	}{
		{name: "all_values", args: []string{"template", "render", "templates/{{locale}}/{{name}}.html", "locale=ja", "name=login"}, want: "templates/ja/login.html\n"},
		{name: "partial", args: []string{"template", "render", "--partial", "templates/{{locale}}/{{name}}.html", "locale=ja"}, want: "templates/ja/{{name}}.html\n"},
		{name: "missing_value", args: []string{"template", "render", "templates/{{locale}}/translation.json"}, category: faults.ValidationError},
		{name: "bad_assignment", args: []string{"template", "render", "a/{{b}}", "b"}, category: faults.ValidationError},
		{name: "unterminated", args: []string{"template", "render", "a/{{b"}, category: faults.ValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := testkit.Execute(testkit.NewHarness(NewCommand), "", tt.args...)
			if tt.category != "" {
				if !faults.IsCategory(err, tt.category) {
					t.Fatalf("expected %s, got %v", tt.category, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("render returned error: %v", err)
			}
			if result.Stdout != tt.want {
				t.Fatalf("output = %q, want %q", result.Stdout, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	result, err := testkit.Execute(testkit.NewHarness(NewCommand), "", "template", "parse", "templates/{{locale}}/{{name}}.html", "templates/zh-HK/login.html")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if result.Stdout != "locale=zh-HK\nname=login\n" {
		t.Fatalf("unexpected text output %q", result.Stdout)
	}

	result, err = testkit.Execute(testkit.NewHarness(NewCommand), "", "template", "parse", "-o", "json", "{{a}}-{{a}}", "x-x")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	var values map[string]string
	if err := json.Unmarshal([]byte(result.Stdout), &values); err != nil || values["a"] != "x" {
		t.Fatalf("unexpected json output %q (%v)", result.Stdout, err)
	}

	_, err = testkit.Execute(testkit.NewHarness(NewCommand), "", "template", "parse", "{{a}}-{{a}}", "x-y")
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected inconsistent parameter to fail, got %v", err)
	}

	_, err = testkit.Execute(testkit.NewHarness(NewCommand), "", "template", "parse", "static/{{locale}}/favicon.gif", "templates/en/translation.json")
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected mismatch to fail, got %v", err)
	}
}
