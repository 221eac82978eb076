package theme

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow/workflowtest"
	"github.com/portalkit/portalkit/internal/cli/common"
	"github.com/portalkit/portalkit/internal/cli/testkit"
	themedomain "github.com/portalkit/portalkit/theme"
)

const lightPath = "static/authgear-authflowv2-light-theme.css"

func newHarness(stores common.Stores) *cobra.Command {
	resolver := &testkit.StaticResolver{Stores: stores}
	deps := common.CommandDependencies{Resolve: resolver.Resolve, Getenv: func(string) string { return "" }}
	return testkit.NewHarness(func(flags *common.GlobalFlags) *cobra.Command {
		return NewCommand(deps, flags)
	})
}

func TestShowBothTargets(t *testing.T) {
	t.Parallel()

	workingCopy := workflowtest.NewStore().Put(lightPath, ":root:not(.dark) {\n  --layout__bg-color: #fafafa;\n}\n")
	root := newHarness(common.Stores{WorkingCopy: workingCopy})

	result, err := testkit.Execute(root, "", "theme", "show", "-o", "json")
	if err != nil {
		t.Fatalf("theme show returned error: %v", err)
	}

	var shown []struct {
		Target     string                        `json:"target"`
		Customised bool                          `json:"customised"`
		Theme      themedomain.CustomisableTheme `json:"theme"`
	}
	if err := json.Unmarshal([]byte(result.Stdout), &shown); err != nil {
		t.Fatalf("invalid json output %q: %v", result.Stdout, err)
	}
	if len(shown) != 2 || shown[0].Target != "light" || shown[1].Target != "dark" {
		t.Fatalf("unexpected targets %#v", shown)
	}
	if !shown[0].Customised || shown[0].Theme.BackgroundColor != "#fafafa" || shown[1].Customised {
		t.Fatalf("unexpected themes %#v", shown)
	}
}

func TestShowText(t *testing.T) {
	t.Parallel()

	root := newHarness(common.Stores{WorkingCopy: workflowtest.NewStore()})
	result, err := testkit.Execute(root, "", "theme", "show", "--target", "dark")
	if err != nil {
		t.Fatalf("theme show returned error: %v", err)
	}
	if !strings.HasPrefix(result.Stdout, "dark theme (defaults,") || !strings.Contains(result.Stdout, "cardAlignment:") {
		t.Fatalf("unexpected text output\n%s", result.Stdout)
	}
}

func TestSetWritesSelectedStore(t *testing.T) {
	t.Parallel()

	workingCopy := workflowtest.NewStore()
	backend := workflowtest.NewStore()

	root := newHarness(common.Stores{WorkingCopy: workingCopy, Backend: backend})
	if _, err := testkit.Execute(root, "", "theme", "set", "--background-color", "#101010", "--card-alignment", "left"); err != nil {
		t.Fatalf("theme set returned error: %v", err)
	}
	content, ok := workingCopy.Content(lightPath)
	if !ok || !strings.Contains(content, "--layout__bg-color: #101010;") || !strings.Contains(content, "--alignment-card: flex-start;") {
		t.Fatalf("unexpected working copy stylesheet\n%s", content)
	}
	if len(backend.Writes()) != 0 {
		t.Fatal("backend must not be written without --backend")
	}

	root = newHarness(common.Stores{WorkingCopy: workingCopy, Backend: backend})
	if _, err := testkit.Execute(root, "", "theme", "set", "--backend", "--link-color", "#ff0000"); err != nil {
		t.Fatalf("theme set --backend returned error: %v", err)
	}
	if content, _ := backend.Content(lightPath); !strings.Contains(content, "--body-text__link-color: #ff0000;") {
		t.Fatalf("unexpected backend stylesheet\n%s", content)
	}
}

func TestSetRejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		stores common.Stores
	}{
		{name: "no_fields", args: []string{"theme", "set"}, stores: common.Stores{WorkingCopy: workflowtest.NewStore()}},
		{name: "bad_alignment", args: []string{"theme", "set", "--card-alignment", "middle"}, stores: common.Stores{WorkingCopy: workflowtest.NewStore()}},
		{name: "bad_target", args: []string{"theme", "set", "--target", "sepia", "--link-color", "#000"}, stores: common.Stores{WorkingCopy: workflowtest.NewStore()}},
		{name: "bad_radius", args: []string{"theme", "set", "--input-field-border-radius", "3 apples"}, stores: common.Stores{WorkingCopy: workflowtest.NewStore()}},
		{name: "missing_backend", args: []string{"theme", "set", "--backend", "--link-color", "#000"}, stores: common.Stores{WorkingCopy: workflowtest.NewStore()}},
		{name: "missing_working_copy", args: []string{"theme", "reset"}, stores: common.Stores{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := testkit.Execute(newHarness(tt.stores), "", tt.args...)
			if !faults.IsCategory(err, faults.ValidationError) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestResetMigrateAndEnsureDeclaration(t *testing.T) {
	t.Parallel()

	darkPath := "static/authgear-authflowv2-dark-theme.css"
	workingCopy := workflowtest.NewStore().
		Put(lightPath, ":root:not(.dark) {\n  --layout__bg-color: #fafafa;\n}\n").
		Put(darkPath, "@media (prefers-color-scheme: dark) {\n  :root {\n    --layout__bg-color: #000000;\n  }\n}\n")
	stores := common.Stores{WorkingCopy: workingCopy}

	result, err := testkit.Execute(newHarness(stores), "", "theme", "reset")
	if err != nil {
		t.Fatalf("theme reset returned error: %v", err)
	}
	if !strings.HasPrefix(result.Stdout, "deleted "+lightPath) {
		t.Fatalf("unexpected reset output %q", result.Stdout)
	}

	if _, err := testkit.Execute(newHarness(stores), "", "theme", "migrate"); err != nil {
		t.Fatalf("theme migrate returned error: %v", err)
	}
	if content, _ := workingCopy.Content(darkPath); !strings.HasPrefix(content, ":root.dark {") {
		t.Fatalf("unexpected migrated stylesheet\n%s", content)
	}

	if _, err := testkit.Execute(newHarness(stores), "", "theme", "ensure-declaration", "--target", "dark", "--", "--brand-logo__height", "40px"); err != nil {
		t.Fatalf("theme ensure-declaration returned error: %v", err)
	}
	if content, _ := workingCopy.Content(darkPath); !strings.Contains(content, "--brand-logo__height: 40px;") {
		t.Fatalf("expected declaration to be added\n%s", content)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := "cardAlignment: center\nbackgroundColor: '#ffffff'\nprimaryButton:\n  backgroundColor: '#176df3'\n  labelColor: '#ffffff'\n  borderRadius:\n    type: rounded\n    radius: 0.875em\ninputField:\n  borderRadius:\n    type: none\nlink:\n  color: '#176df3'\n"
	result, err := testkit.Execute(newHarness(common.Stores{}), valid, "theme", "validate")
	if err != nil {
		t.Fatalf("theme validate returned error: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "theme is valid" {
		t.Fatalf("unexpected output %q", result.Stdout)
	}

	invalid := strings.Replace(valid, "0.875em", "wide", 1)
	result, err = testkit.Execute(newHarness(common.Stores{}), invalid, "theme", "validate")
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(result.Stdout, "/primaryButton/borderRadius") {
		t.Fatalf("expected violation location in output, got %q", result.Stdout)
	}
}

func TestEncodeDecode(t *testing.T) {
	t.Parallel()

	document := `{"cardAlignment":"end","backgroundColor":"#000000","primaryButton":{"backgroundColor":"#ffffff","labelColor":"#000000","borderRadius":{"type":"rounded-full"}},"inputField":{"borderRadius":{"type":"none"}},"link":{"color":"#ffffff"}}`
	encoded, err := testkit.Execute(newHarness(common.Stores{}), document, "theme", "encode", "--target", "dark", "--format", "json")
	if err != nil {
		t.Fatalf("theme encode returned error: %v", err)
	}
	if !strings.HasPrefix(encoded.Stdout, ":root.dark {") || !strings.Contains(encoded.Stdout, "--alignment-card: flex-end;") {
		t.Fatalf("unexpected css\n%s", encoded.Stdout)
	}

	decoded, err := testkit.Execute(newHarness(common.Stores{}), encoded.Stdout, "theme", "decode", "--target", "dark", "-o", "json")
	if err != nil {
		t.Fatalf("theme decode returned error: %v", err)
	}
	var value themedomain.CustomisableTheme
	if err := json.Unmarshal([]byte(decoded.Stdout), &value); err != nil {
		t.Fatalf("invalid json output %q: %v", decoded.Stdout, err)
	}
	if value.CardAlignment != themedomain.AlignmentEnd || value.PrimaryButton.BorderRadius != themedomain.FullBorderRadius() || value.Link.Color != "#ffffff" {
		t.Fatalf("unexpected decoded theme %#v", value)
	}
}
