package stringtemplate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/portalkit/portalkit/faults"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		source    string
		wantNames []string
		wantErr   bool
	}{
		{name: "no placeholder", source: "authgear.yaml", wantNames: []string{}},
		{name: "single placeholder", source: "templates/{{locale}}/translation.json", wantNames: []string{"locale"}},
		{name: "adjacent text", source: "static/{{locale}}/app_logo{{extension}}", wantNames: []string{"locale", "extension"}},
		{name: "repeated placeholder", source: "{{a}}-{{b}}-{{a}}", wantNames: []string{"a", "b"}},
		{name: "trims name", source: "x/{{ locale }}", wantNames: []string{"locale"}},
		{name: "unterminated", source: "templates/{{locale/a.html", wantErr: true},
		{name: "stray close", source: "templates/locale}}/a.html", wantErr: true},
		{name: "empty name", source: "templates/{{}}/a.html", wantErr: true},
		{name: "invalid name", source: "templates/{{lo-cale}}/a.html", wantErr: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			template, err := Compile(testCase.source)
			if testCase.wantErr {
				if err == nil {
					t.Fatalf("Compile(%q) expected error", testCase.source)
				}
				if !faults.IsCategory(err, faults.ValidationError) {
					t.Fatalf("Compile(%q) error category = %q, want validation", testCase.source, faults.CategoryOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Compile(%q) returned error: %v", testCase.source, err)
			}
			if got := template.Names(); !reflect.DeepEqual(got, testCase.wantNames) {
				t.Fatalf("Names() = %v, want %v", got, testCase.wantNames)
			}
			if got := template.String(); got != testCase.source && testCase.name != "trims name" {
				t.Fatalf("String() = %q, want %q", got, testCase.source)
			}
		})
	}
}

func TestNewValidatesSegmentCount(t *testing.T) {
	t.Parallel()

	if _, err := New([]string{"templates/", "/a.html"}); err == nil {
		t.Fatal("expected error for missing placeholder name")
	}
	if _, err := New([]string{"templates/", "/a.html"}, "locale", "extra"); err == nil {
		t.Fatal("expected error for extra placeholder name")
	}

	template, err := New([]string{"templates/", "/a.html"}, "locale")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if got, want := template.String(), "templates/{{locale}}/a.html"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	template := MustCompile("templates/{{locale}}/a.html")

	rendered, err := template.Render(Values{"locale": "en"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if rendered != "templates/en/a.html" {
		t.Fatalf("Render() = %q, want %q", rendered, "templates/en/a.html")
	}

	_, err = template.Render(Values{})
	if err == nil {
		t.Fatal("expected missing parameter error")
	}
	var missing *MissingParameterError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingParameterError, got %T: %v", err, err)
	}
	if missing.Name != "locale" {
		t.Fatalf("MissingParameterError.Name = %q, want locale", missing.Name)
	}
}

func TestRenderPartial(t *testing.T) {
	t.Parallel()

	template := MustCompile("static/{{locale}}/app_logo{{extension}}")

	if got, want := template.RenderPartial(Values{"locale": "en"}, nil), "static/en/app_logo{{extension}}"; got != want {
		t.Fatalf("RenderPartial(nil fallback) = %q, want %q", got, want)
	}

	fallback := func(name string) string { return "<" + name + ">" }
	if got, want := template.RenderPartial(Values{}, fallback), "static/<locale>/app_logo<extension>"; got != want {
		t.Fatalf("RenderPartial(fallback) = %q, want %q", got, want)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		template  string
		input     string
		want      Values
		wantMatch bool
		wantErr   bool
	}{
		{
			name:      "single placeholder",
			template:  "templates/{{locale}}/a.html",
			input:     "templates/en/a.html",
			want:      Values{"locale": "en"},
			wantMatch: true,
		},
		{
			name:      "two placeholders",
			template:  "static/{{locale}}/app_logo{{extension}}",
			input:     "static/zh-HK/app_logo.png",
			want:      Values{"locale": "zh-HK", "extension": ".png"},
			wantMatch: true,
		},
		{
			name:      "regex metacharacters in literal",
			template:  "templates/{{locale}}/a.html",
			input:     "templates/en/aXhtml",
			wantMatch: false,
		},
		{
			name:      "anchored at both ends",
			template:  "templates/{{locale}}/a.html",
			input:     "x/templates/en/a.html.bak",
			wantMatch: false,
		},
		{
			name:      "no placeholder exact match",
			template:  "authgear.yaml",
			input:     "authgear.yaml",
			want:      Values{},
			wantMatch: true,
		},
		{
			name:      "repeated placeholder consistent",
			template:  "{{locale}}/{{locale}}.json",
			input:     "en/en.json",
			want:      Values{"locale": "en"},
			wantMatch: true,
		},
		{
			name:     "repeated placeholder inconsistent",
			template: "{{locale}}/{{locale}}.json",
			input:    "en/fr.json",
			wantErr:  true,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			template := MustCompile(testCase.template)
			values, ok, err := template.Parse(testCase.input)
			if testCase.wantErr {
				var inconsistent *InconsistentParameterError
				if !errors.As(err, &inconsistent) {
					t.Fatalf("Parse(%q) error = %v, want InconsistentParameterError", testCase.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) returned error: %v", testCase.input, err)
			}
			if ok != testCase.wantMatch {
				t.Fatalf("Parse(%q) ok = %t, want %t", testCase.input, ok, testCase.wantMatch)
			}
			if !ok {
				if values != nil {
					t.Fatalf("Parse(%q) values = %v, want nil on mismatch", testCase.input, values)
				}
				return
			}
			if !reflect.DeepEqual(values, testCase.want) {
				t.Fatalf("Parse(%q) = %v, want %v", testCase.input, values, testCase.want)
			}
		})
	}
}

func TestZeroTemplate(t *testing.T) {
	t.Parallel()

	var template Template
	rendered, err := template.Render(nil)
	if err != nil || rendered != "" {
		t.Fatalf("zero Render() = %q, %v", rendered, err)
	}
	values, ok, err := template.Parse("")
	if err != nil || !ok || len(values) != 0 {
		t.Fatalf("zero Parse(\"\") = %v, %t, %v", values, ok, err)
	}
	if _, ok, _ := template.Parse("x"); ok {
		t.Fatal("zero template must only match the empty string")
	}
}
