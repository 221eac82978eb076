package theme

import "testing"

func TestParseAlignment(t *testing.T) {
	t.Parallel()

	testCases := map[string]Alignment{
		"start":  AlignmentStart,
		"left":   AlignmentStart,
		"Center": AlignmentCenter,
		"end":    AlignmentEnd,
		"right":  AlignmentEnd,
	}
	for input, want := range testCases {
		got, err := ParseAlignment(input)
		if err != nil {
			t.Fatalf("ParseAlignment(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseAlignment(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseAlignment("justify"); err == nil {
		t.Fatal("expected error for unknown alignment")
	}
}

func TestParseBorderRadiusStyle(t *testing.T) {
	t.Parallel()

	if got := ParseBorderRadiusStyle("none"); got != NoBorderRadius() {
		t.Fatalf("ParseBorderRadiusStyle(none) = %#v", got)
	}
	if got := ParseBorderRadiusStyle("full"); got != FullBorderRadius() {
		t.Fatalf("ParseBorderRadiusStyle(full) = %#v", got)
	}
	if got := ParseBorderRadiusStyle(" 8px "); got != RoundedBorderRadius("8px") {
		t.Fatalf("ParseBorderRadiusStyle(8px) = %#v", got)
	}
}

func TestTarget(t *testing.T) {
	t.Parallel()

	target, err := ParseTarget("DARK")
	if err != nil || target != Dark {
		t.Fatalf("ParseTarget(DARK) = %q, %v", target, err)
	}
	if Dark.Selector() != ":root.dark" || Light.Selector() != ":root:not(.dark)" {
		t.Fatal("unexpected target selectors")
	}
	if Dark.Defaults() != DefaultDarkTheme() || Light.Defaults() != DefaultLightTheme() {
		t.Fatal("unexpected target defaults")
	}
	if _, err := ParseTarget("sepia"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestWithReturnsCopy(t *testing.T) {
	t.Parallel()

	base := DefaultLightTheme()
	color := "#000000"
	updated := base.With(Patch{LinkColor: &color})

	if base != DefaultLightTheme() {
		t.Fatal("With must not modify the receiver")
	}
	if updated.Link.Color != color {
		t.Fatalf("With() link color = %q", updated.Link.Color)
	}
	if !(Patch{}).IsEmpty() || (Patch{LinkColor: &color}).IsEmpty() {
		t.Fatal("unexpected IsEmpty result")
	}
}
