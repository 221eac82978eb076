package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/portalkit/portalkit/faults"
)

type ViolationKind string

const (
	ViolationRequired ViolationKind = "required"
	ViolationFormat   ViolationKind = "format"
	ViolationUnit     ViolationKind = "unit"
	ViolationEnum     ViolationKind = "enum"
)

// Violation is one invalid field. Location is a JSON pointer into the theme.
type Violation struct {
	Location string        `json:"location" yaml:"location"`
	Kind     ViolationKind `json:"kind" yaml:"kind"`
	Message  string        `json:"message" yaml:"message"`
}

type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", violation.Location, violation.Message))
	}
	return strings.Join(parts, "; ")
}

var lengthUnits = map[string]struct{}{
	"px": {}, "em": {}, "rem": {}, "ex": {}, "ch": {}, "lh": {}, "rlh": {},
	"vw": {}, "vh": {}, "vmin": {}, "vmax": {}, "vi": {}, "vb": {},
	"cm": {}, "mm": {}, "q": {}, "in": {}, "pt": {}, "pc": {},
}

// ValidateBorderRadius checks that a rounded style carries a CSS length. A
// unitless zero is a valid length.
func ValidateBorderRadius(style BorderRadiusStyle) error {
	return violationsError(borderRadiusViolations("", style))
}

// Validate checks every field of t.
func Validate(t CustomisableTheme) error {
	var violations []Violation
	switch t.CardAlignment {
	case AlignmentStart, AlignmentCenter, AlignmentEnd:
	default:
		violations = append(violations, Violation{
			Location: "/cardAlignment",
			Kind:     ViolationEnum,
			Message:  fmt.Sprintf("unknown alignment %q", t.CardAlignment),
		})
	}
	violations = append(violations, colorViolations("/backgroundColor", t.BackgroundColor)...)
	violations = append(violations, colorViolations("/primaryButton/backgroundColor", t.PrimaryButton.BackgroundColor)...)
	violations = append(violations, colorViolations("/primaryButton/labelColor", t.PrimaryButton.LabelColor)...)
	violations = append(violations, borderRadiusViolations("/primaryButton/borderRadius", t.PrimaryButton.BorderRadius)...)
	violations = append(violations, borderRadiusViolations("/inputField/borderRadius", t.InputField.BorderRadius)...)
	violations = append(violations, colorViolations("/link/color", t.Link.Color)...)
	return violationsError(violations)
}

func violationsError(violations []Violation) error {
	if len(violations) == 0 {
		return nil
	}
	detail := &ValidationError{Violations: violations}
	return faults.NewValidationError("invalid theme: "+detail.Error(), detail)
}

func borderRadiusViolations(pointer string, style BorderRadiusStyle) []Violation {
	switch style.Type {
	case BorderRadiusNone, BorderRadiusRoundedFull:
		return nil
	case BorderRadiusRounded:
	default:
		return []Violation{{
			Location: pointer + "/type",
			Kind:     ViolationEnum,
			Message:  fmt.Sprintf("unknown border radius type %q", style.Type),
		}}
	}

	location := pointer + "/radius"
	tokens := significantTokens(style.Radius)
	if len(tokens) == 0 {
		return []Violation{{Location: location, Kind: ViolationRequired, Message: "radius is required"}}
	}
	if len(tokens) > 1 {
		return []Violation{{Location: location, Kind: ViolationFormat, Message: fmt.Sprintf("%q is not a CSS length", style.Radius)}}
	}

	token := tokens[0]
	switch token.TokenType {
	case css.DimensionToken:
		numberLength := parse.Number(token.Data)
		number, unit := string(token.Data[:numberLength]), strings.ToLower(string(token.Data[numberLength:]))
		if strings.HasPrefix(number, "-") {
			return []Violation{{Location: location, Kind: ViolationFormat, Message: "radius must not be negative"}}
		}
		if _, ok := lengthUnits[unit]; !ok {
			return []Violation{{Location: location, Kind: ViolationUnit, Message: fmt.Sprintf("unknown length unit %q", unit)}}
		}
		return nil
	case css.PercentageToken:
		if strings.HasPrefix(string(token.Data), "-") {
			return []Violation{{Location: location, Kind: ViolationFormat, Message: "radius must not be negative"}}
		}
		return nil
	case css.NumberToken:
		value, err := strconv.ParseFloat(string(token.Data), 64)
		if err == nil && value == 0 {
			return nil
		}
		return []Violation{{Location: location, Kind: ViolationUnit, Message: "a non-zero radius needs a length unit"}}
	default:
		return []Violation{{Location: location, Kind: ViolationFormat, Message: fmt.Sprintf("%q is not a CSS length", style.Radius)}}
	}
}

// colorViolations only guards what would break the stylesheet; the color
// syntax itself is left to the browser.
func colorViolations(location string, value string) []Violation {
	tokens := significantTokens(value)
	if len(tokens) == 0 {
		return []Violation{{Location: location, Kind: ViolationRequired, Message: "color is required"}}
	}
	for _, token := range tokens {
		switch token.TokenType {
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken, css.BadStringToken, css.BadURLToken, css.CDOToken, css.CDCToken:
			return []Violation{{Location: location, Kind: ViolationFormat, Message: fmt.Sprintf("%q is not a CSS value", value)}}
		}
	}
	return nil
}

func significantTokens(value string) []css.Token {
	lexer := css.NewLexer(parse.NewInputString(value))
	var tokens []css.Token
	for {
		tokenType, data := lexer.Next()
		switch tokenType {
		case css.ErrorToken:
			return tokens
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		tokens = append(tokens, css.Token{TokenType: tokenType, Data: append([]byte(nil), data...)})
	}
}
