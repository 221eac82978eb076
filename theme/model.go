package theme

import (
	"fmt"
	"strings"

	"github.com/portalkit/portalkit/faults"
)

type Alignment string

const (
	AlignmentStart  Alignment = "start"
	AlignmentCenter Alignment = "center"
	AlignmentEnd    Alignment = "end"
)

// ParseAlignment accepts the alignment names and the left/right aliases used
// by the design editor.
func ParseAlignment(value string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "start", "left":
		return AlignmentStart, nil
	case "center":
		return AlignmentCenter, nil
	case "end", "right":
		return AlignmentEnd, nil
	default:
		return "", faults.NewValidationError(fmt.Sprintf("invalid card alignment %q: expected start, center or end", value), nil)
	}
}

type BorderRadiusType string

const (
	BorderRadiusNone        BorderRadiusType = "none"
	BorderRadiusRounded     BorderRadiusType = "rounded"
	BorderRadiusRoundedFull BorderRadiusType = "rounded-full"
)

// BorderRadiusStyle is a tagged variant. Radius is only meaningful for
// BorderRadiusRounded.
type BorderRadiusStyle struct {
	Type   BorderRadiusType `json:"type" yaml:"type"`
	Radius string           `json:"radius,omitempty" yaml:"radius,omitempty"`
}

func NoBorderRadius() BorderRadiusStyle {
	return BorderRadiusStyle{Type: BorderRadiusNone}
}

func RoundedBorderRadius(radius string) BorderRadiusStyle {
	return BorderRadiusStyle{Type: BorderRadiusRounded, Radius: radius}
}

func FullBorderRadius() BorderRadiusStyle {
	return BorderRadiusStyle{Type: BorderRadiusRoundedFull}
}

// ParseBorderRadiusStyle reads the command-line form: "none", "rounded-full"
// (or "full"), or a CSS length for a rounded corner.
func ParseBorderRadiusStyle(value string) BorderRadiusStyle {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "none":
		return NoBorderRadius()
	case "rounded-full", "full":
		return FullBorderRadius()
	default:
		return RoundedBorderRadius(trimmed)
	}
}

func (s BorderRadiusStyle) String() string {
	if s.Type == BorderRadiusRounded {
		return s.Radius
	}
	return string(s.Type)
}

type ButtonStyle struct {
	BackgroundColor string            `json:"backgroundColor" yaml:"backgroundColor"`
	LabelColor      string            `json:"labelColor" yaml:"labelColor"`
	BorderRadius    BorderRadiusStyle `json:"borderRadius" yaml:"borderRadius"`
}

type InputFieldStyle struct {
	BorderRadius BorderRadiusStyle `json:"borderRadius" yaml:"borderRadius"`
}

type LinkStyle struct {
	Color string `json:"color" yaml:"color"`
}

// CustomisableTheme is the editable subset of the authentication UI styling.
// It is a plain value; updates return a new value.
type CustomisableTheme struct {
	CardAlignment   Alignment       `json:"cardAlignment" yaml:"cardAlignment"`
	BackgroundColor string          `json:"backgroundColor" yaml:"backgroundColor"`
	PrimaryButton   ButtonStyle     `json:"primaryButton" yaml:"primaryButton"`
	InputField      InputFieldStyle `json:"inputField" yaml:"inputField"`
	Link            LinkStyle       `json:"link" yaml:"link"`
}

// Patch holds optional field updates. Nil fields keep their current value.
type Patch struct {
	CardAlignment             *Alignment
	BackgroundColor           *string
	PrimaryButtonColor        *string
	PrimaryButtonLabelColor   *string
	PrimaryButtonBorderRadius *BorderRadiusStyle
	InputFieldBorderRadius    *BorderRadiusStyle
	LinkColor                 *string
}

func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// With returns a copy of t with the patch applied.
func (t CustomisableTheme) With(p Patch) CustomisableTheme {
	next := t
	if p.CardAlignment != nil {
		next.CardAlignment = *p.CardAlignment
	}
	if p.BackgroundColor != nil {
		next.BackgroundColor = *p.BackgroundColor
	}
	if p.PrimaryButtonColor != nil {
		next.PrimaryButton.BackgroundColor = *p.PrimaryButtonColor
	}
	if p.PrimaryButtonLabelColor != nil {
		next.PrimaryButton.LabelColor = *p.PrimaryButtonLabelColor
	}
	if p.PrimaryButtonBorderRadius != nil {
		next.PrimaryButton.BorderRadius = *p.PrimaryButtonBorderRadius
	}
	if p.InputFieldBorderRadius != nil {
		next.InputField.BorderRadius = *p.InputFieldBorderRadius
	}
	if p.LinkColor != nil {
		next.Link.Color = *p.LinkColor
	}
	return next
}

var defaultLightTheme = CustomisableTheme{
	CardAlignment:   AlignmentCenter,
	BackgroundColor: "#ffffff",
	PrimaryButton: ButtonStyle{
		BackgroundColor: "#176df3",
		LabelColor:      "#ffffff",
		BorderRadius:    RoundedBorderRadius("0.875em"),
	},
	InputField: InputFieldStyle{
		BorderRadius: RoundedBorderRadius("0.875em"),
	},
	Link: LinkStyle{
		Color: "#176df3",
	},
}

var defaultDarkTheme = CustomisableTheme{
	CardAlignment:   AlignmentCenter,
	BackgroundColor: "#1c1c1e",
	PrimaryButton: ButtonStyle{
		BackgroundColor: "#176df3",
		LabelColor:      "#ffffff",
		BorderRadius:    RoundedBorderRadius("0.875em"),
	},
	InputField: InputFieldStyle{
		BorderRadius: RoundedBorderRadius("0.875em"),
	},
	Link: LinkStyle{
		Color: "#176df3",
	},
}

func DefaultLightTheme() CustomisableTheme {
	return defaultLightTheme
}

func DefaultDarkTheme() CustomisableTheme {
	return defaultDarkTheme
}

// Target selects the light or dark variant of the theme.
type Target string

const (
	Light Target = "light"
	Dark  Target = "dark"
)

const (
	LightSelector = ":root:not(.dark)"
	DarkSelector  = ":root.dark"
)

func ParseTarget(value string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(value))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", faults.NewValidationError(fmt.Sprintf("invalid theme target %q: expected light or dark", value), nil)
	}
}

func (t Target) Selector() string {
	if t == Dark {
		return DarkSelector
	}
	return LightSelector
}

func (t Target) Defaults() CustomisableTheme {
	if t == Dark {
		return DefaultDarkTheme()
	}
	return DefaultLightTheme()
}
