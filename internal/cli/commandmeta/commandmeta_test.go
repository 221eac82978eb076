package commandmeta

import "testing"

func TestEmitsExecutionStatusPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "portalkit resource push", want: true},
		{path: " portalkit theme set ", want: true},
		{path: "portalkit resource diff", want: false},
		{path: "portalkit version", want: false},
	}
	for _, tt := range tests {
		if got := EmitsExecutionStatusPath(tt.path); got != tt.want {
			t.Fatalf("EmitsExecutionStatusPath(%q) = %t, want %t", tt.path, got, tt.want)
		}
	}
}

func TestOutputPolicyForPath(t *testing.T) {
	t.Parallel()

	if OutputPolicyForPath("portalkit theme encode") != OutputPolicyTextOnly {
		t.Fatal("expected theme encode to be text only")
	}
	if OutputPolicyForPath("portalkit theme decode") != OutputPolicyStructured {
		t.Fatal("expected theme decode to be structured")
	}
}
