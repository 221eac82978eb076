package workflow_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/portalkit/portalkit/faults"
	"github.com/portalkit/portalkit/internal/app/resource/workflow"
	"github.com/portalkit/portalkit/internal/app/resource/workflow/workflowtest"
	"github.com/portalkit/portalkit/repository"
	"github.com/portalkit/portalkit/resource"
)

type failingConfigReader struct{}

func (failingConfigReader) ReadConfig(context.Context) (repository.ConfigDocument, error) {
	return repository.ConfigDocument{}, faults.NewTypedError(faults.TransportError, "backend unavailable", nil)
}

func TestResolveLocales(t *testing.T) {
	t.Parallel()

	withLanguages := workflowtest.NewStore().Put(repository.ConfigPath, "localization:\n  fallback_language: fr\n  supported_languages: [fr, en, fr]\n")
	withFallbackOnly := workflowtest.NewStore().Put(repository.ConfigPath, "localization:\n  fallback_language: de\n")
	withoutLocalization := workflowtest.NewStore().Put(repository.ConfigPath, "id: my-app\n")
	empty := workflowtest.NewStore()

	tests := []struct {
		name      string
		requested []string
		context   []string
		sources   []repository.ConfigReader
		want      []string
	}{
		{name: "requested_wins", requested: []string{"ja", "en"}, context: []string{"fr"}, sources: []repository.ConfigReader{withLanguages}, want: []string{"en", "ja"}},
		{name: "context_before_config", context: []string{"zh-TW"}, sources: []repository.ConfigReader{withLanguages}, want: []string{"zh-TW"}},
		{name: "supported_languages", sources: []repository.ConfigReader{withLanguages}, want: []string{"en", "fr"}},
		{name: "skips_missing_config", sources: []repository.ConfigReader{empty, withFallbackOnly}, want: []string{"de"}},
		{name: "default_fallback", sources: []repository.ConfigReader{withoutLocalization}, want: []string{"en"}},
		{name: "no_sources", want: []string{"en"}},
		{name: "nil_source", sources: []repository.ConfigReader{nil}, want: []string{"en"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := workflow.ResolveLocales(context.Background(), tt.requested, tt.context, tt.sources...)
			if err != nil {
				t.Fatalf("ResolveLocales returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ResolveLocales() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveLocalesErrors(t *testing.T) {
	t.Parallel()

	_, err := workflow.ResolveLocales(context.Background(), []string{"en_US"}, nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for non-canonical locale, got %v", err)
	}

	_, err = workflow.ResolveLocales(context.Background(), nil, nil, failingConfigReader{})
	if !faults.IsCategory(err, faults.TransportError) {
		t.Fatalf("expected transport error to propagate, got %v", err)
	}

	broken := workflowtest.NewStore().Put(repository.ConfigPath, "localization: [\n")
	_, err = workflow.ResolveLocales(context.Background(), nil, nil, broken)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error for invalid YAML, got %v", err)
	}
}

func TestParseLocalization(t *testing.T) {
	t.Parallel()

	localization, err := workflow.ParseLocalization("")
	if err != nil {
		t.Fatalf("ParseLocalization(empty) returned error: %v", err)
	}
	if localization.Fallback() != workflow.DefaultFallbackLanguage {
		t.Fatalf("Fallback() = %q", localization.Fallback())
	}

	localization, err = workflow.ParseLocalization("http:\n  public_origin: https://x\nlocalization:\n  fallback_language: ' ja '\n")
	if err != nil {
		t.Fatalf("ParseLocalization returned error: %v", err)
	}
	if localization.Fallback() != "ja" {
		t.Fatalf("Fallback() = %q, want ja", localization.Fallback())
	}
}

func TestSnapshotDecodesValues(t *testing.T) {
	t.Parallel()

	store := workflowtest.NewStore().
		Put("templates/en/translation.json", `{"k":"v"}`).
		Put("static/en/favicon.png", "\x89PNG").
		PutEffective("templates/en/messages/verification_sms.txt", "Your code is {{ .Code }}")

	specifiers := []resource.Specifier{
		{Def: resource.TranslationJSON, Locale: "en"},
		{Def: resource.Favicon, Locale: "en", Extension: ".png"},
		{Def: resource.VerificationSMSText, Locale: "en"},
		{Def: resource.TranslationJSON, Locale: "fr"},
	}
	items, err := workflow.Snapshot(context.Background(), store, specifiers)
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 resources, got %d", len(items))
	}

	if items[0].Path != "templates/en/translation.json" || *items[0].Value != `{"k":"v"}` {
		t.Fatalf("unexpected text resource %#v", items[0])
	}
	if items[0].Checksum != resource.Checksum([]byte(`{"k":"v"}`)) {
		t.Fatalf("unexpected checksum %q", items[0].Checksum)
	}
	if *items[1].Value != "iVBORw==" {
		t.Fatalf("binary value must stay base64, got %q", *items[1].Value)
	}
	if items[2].Present() || items[2].DisplayValue() != "Your code is {{ .Code }}" {
		t.Fatalf("unexpected effective resource %#v", items[2])
	}
	if items[3].Value != nil {
		t.Fatalf("expected absent resource, got %#v", items[3])
	}
}

func TestSnapshotRejectsIncompleteSpecifier(t *testing.T) {
	t.Parallel()

	_, err := workflow.Snapshot(context.Background(), workflowtest.NewStore(), []resource.Specifier{{Def: resource.TranslationJSON}})
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = workflow.Snapshot(context.Background(), nil, nil)
	if !faults.IsCategory(err, faults.ValidationError) {
		t.Fatalf("expected validation error without reader, got %v", err)
	}
}

func TestFileToResourceRejectsInvalidWireData(t *testing.T) {
	t.Parallel()

	invalid := "not base64!"
	_, err := workflow.FileToResource(resource.Specifier{Def: resource.TranslationJSON, Locale: "en"}, "templates/en/translation.json", repository.RemoteFile{Data: &invalid})
	var typedErr *faults.TypedError
	if !errors.As(err, &typedErr) || typedErr.Category != faults.ValidationError {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatesToFiles(t *testing.T) {
	t.Parallel()

	updates := []resource.Update{
		{Specifier: resource.Specifier{Def: resource.TranslationJSON, Locale: "en"}, Path: "templates/en/translation.json", Value: resource.StringValue("{}"), Checksum: "0000abcd"},
		{Specifier: resource.Specifier{Def: resource.Favicon, Locale: "en", Extension: ".png"}, Path: "static/en/favicon.png", Value: resource.StringValue("iVBORw==")},
		{Specifier: resource.Specifier{Def: resource.TranslationJSON, Locale: "fr"}, Path: "templates/fr/translation.json", Checksum: "1234abcd"},
	}

	files := workflow.UpdatesToFiles(updates, false)
	if *files[0].Data != "e30=" || files[0].Checksum != "0000abcd" {
		t.Fatalf("unexpected text update %#v", files[0])
	}
	if *files[1].Data != "iVBORw==" {
		t.Fatalf("binary update must pass through, got %q", *files[1].Data)
	}
	if files[2].Data != nil || files[2].Checksum != "1234abcd" {
		t.Fatalf("unexpected deletion %#v", files[2])
	}

	for _, file := range workflow.UpdatesToFiles(updates, true) {
		if file.Checksum != "" {
			t.Fatalf("expected checksum to be dropped, got %#v", file)
		}
	}

	deletion := workflow.ResourceToFile(resource.Resource{Specifier: updates[2].Specifier, Path: updates[2].Path})
	if deletion.Data != nil {
		t.Fatalf("expected absent resource to become a deletion, got %#v", deletion)
	}
}
