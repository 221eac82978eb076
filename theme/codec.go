package theme

import (
	"strings"
)

const (
	PropertyBackgroundColor             = "--layout__bg-color"
	PropertyCardAlignment               = "--alignment-card"
	PropertyPrimaryButtonColor          = "--primary-btn__bg-color"
	PropertyPrimaryButtonLabelColor     = "--primary-btn__text-color"
	PropertyPrimaryButtonBorderRadius   = "--primary-btn__border-radius"
	PropertySecondaryButtonBorderRadius = "--secondary-btn__border-radius"
	PropertyInputFieldBorderRadius      = "--input__border-radius"
	PropertyLinkColor                   = "--body-text__link-color"
)

// property maps one CSS custom property to a theme field. decode is nil for
// properties that are written but never read back.
type property struct {
	name   string
	decode func(t *CustomisableTheme, value string)
	encode func(t CustomisableTheme) string
}

// properties is in encode order. On decode a declaration goes to the first
// entry with its name and a decoder.
var properties = []property{
	{
		name:   PropertyBackgroundColor,
		decode: func(t *CustomisableTheme, value string) { t.BackgroundColor = value },
		encode: func(t CustomisableTheme) string { return t.BackgroundColor },
	},
	{
		name:   PropertyCardAlignment,
		decode: func(t *CustomisableTheme, value string) { t.CardAlignment = decodeAlignment(value) },
		encode: func(t CustomisableTheme) string { return encodeAlignment(t.CardAlignment) },
	},
	{
		name:   PropertyPrimaryButtonColor,
		decode: func(t *CustomisableTheme, value string) { t.PrimaryButton.BackgroundColor = value },
		encode: func(t CustomisableTheme) string { return t.PrimaryButton.BackgroundColor },
	},
	{
		name:   PropertyPrimaryButtonLabelColor,
		decode: func(t *CustomisableTheme, value string) { t.PrimaryButton.LabelColor = value },
		encode: func(t CustomisableTheme) string { return t.PrimaryButton.LabelColor },
	},
	{
		name:   PropertyPrimaryButtonBorderRadius,
		decode: func(t *CustomisableTheme, value string) { t.PrimaryButton.BorderRadius = decodeBorderRadius(value) },
		encode: func(t CustomisableTheme) string { return encodeBorderRadius(t.PrimaryButton.BorderRadius) },
	},
	{
		name:   PropertySecondaryButtonBorderRadius,
		encode: func(t CustomisableTheme) string { return encodeBorderRadius(t.PrimaryButton.BorderRadius) },
	},
	{
		name:   PropertyInputFieldBorderRadius,
		decode: func(t *CustomisableTheme, value string) { t.InputField.BorderRadius = decodeBorderRadius(value) },
		encode: func(t CustomisableTheme) string { return encodeBorderRadius(t.InputField.BorderRadius) },
	},
	{
		name:   PropertyLinkColor,
		decode: func(t *CustomisableTheme, value string) { t.Link.Color = value },
		encode: func(t CustomisableTheme) string { return t.Link.Color },
	},
}

func isKnownProperty(name string) bool {
	for _, candidate := range properties {
		if candidate.name == name {
			return true
		}
	}
	return false
}

// dispatch hands a declaration to the first property that claims it.
// Unclaimed declarations are ignored.
func dispatch(table []property, t *CustomisableTheme, declaration *Declaration) bool {
	for _, candidate := range table {
		if candidate.name != declaration.Property || candidate.decode == nil {
			continue
		}
		candidate.decode(t, declaration.Value)
		return true
	}
	return false
}

// Decode reads the theme from the top-level rulesets whose selector is
// selector. Fields without a matching declaration keep their value from
// defaults, so an empty or unrelated sheet decodes to defaults.
func Decode(sheet *Stylesheet, selector string, defaults CustomisableTheme) CustomisableTheme {
	decoded := defaults
	for _, ruleset := range sheet.Rulesets(selector) {
		for _, declaration := range ruleset.Declarations {
			dispatch(properties, &decoded, declaration)
		}
	}
	return decoded
}

// DecodeTarget decodes with the selector and defaults of target.
func DecodeTarget(sheet *Stylesheet, target Target) CustomisableTheme {
	return Decode(sheet, target.Selector(), target.Defaults())
}

// Encode writes t as one ruleset for selector, one declaration per property in
// a fixed order.
func Encode(t CustomisableTheme, selector string) *Ruleset {
	ruleset := &Ruleset{
		Selector:     selector,
		Declarations: make([]*Declaration, 0, len(properties)),
	}
	for _, entry := range properties {
		ruleset.Declarations = append(ruleset.Declarations, &Declaration{
			Property: entry.name,
			Value:    entry.encode(t),
		})
	}
	return ruleset
}

func EncodeString(t CustomisableTheme, selector string) string {
	return Encode(t, selector).String()
}

// Apply returns a copy of sheet in which the theme declarations of the
// selector's rulesets are replaced by the encoding of t. Other declarations,
// rulesets and at-rules are kept. The new declarations take the place of the
// first replaced one; without a matching ruleset a new one is appended.
func Apply(sheet *Stylesheet, selector string, t CustomisableTheme) *Stylesheet {
	result := sheet.Clone()
	encoded := Encode(t, selector)

	placed := false
	nodes := make([]Node, 0, len(result.Nodes)+1)
	for _, node := range result.Nodes {
		ruleset, ok := node.(*Ruleset)
		if !ok || ruleset.Selector != selector {
			nodes = append(nodes, node)
			continue
		}

		kept := make([]*Declaration, 0, len(ruleset.Declarations)+len(encoded.Declarations))
		insertAt := -1
		for _, declaration := range ruleset.Declarations {
			if isKnownProperty(declaration.Property) {
				if insertAt < 0 {
					insertAt = len(kept)
				}
				continue
			}
			kept = append(kept, declaration)
		}

		if !placed {
			if insertAt < 0 {
				insertAt = len(kept)
			}
			merged := make([]*Declaration, 0, len(kept)+len(encoded.Declarations))
			merged = append(merged, kept[:insertAt]...)
			merged = append(merged, encoded.Declarations...)
			merged = append(merged, kept[insertAt:]...)
			kept = merged
			placed = true
		}

		if len(kept) == 0 {
			continue
		}
		ruleset.Declarations = kept
		nodes = append(nodes, ruleset)
	}
	if !placed {
		nodes = append(nodes, encoded)
	}

	result.Nodes = nodes
	return result
}

// Remove returns a copy of sheet without the theme declarations of the
// selector's rulesets. Rulesets left empty are dropped.
func Remove(sheet *Stylesheet, selector string) *Stylesheet {
	result := sheet.Clone()
	nodes := make([]Node, 0, len(result.Nodes))
	for _, node := range result.Nodes {
		ruleset, ok := node.(*Ruleset)
		if !ok || ruleset.Selector != selector {
			nodes = append(nodes, node)
			continue
		}
		kept := make([]*Declaration, 0, len(ruleset.Declarations))
		for _, declaration := range ruleset.Declarations {
			if !isKnownProperty(declaration.Property) {
				kept = append(kept, declaration)
			}
		}
		if len(kept) == 0 {
			continue
		}
		ruleset.Declarations = kept
		nodes = append(nodes, ruleset)
	}
	result.Nodes = nodes
	return result
}

// AddDeclarationIfAbsent adds declaration to the selector's ruleset unless one
// of the selector's rulesets already declares the property. It reports
// whether the sheet changed; the input sheet is never modified.
func AddDeclarationIfAbsent(sheet *Stylesheet, selector string, declaration Declaration) (*Stylesheet, bool) {
	for _, ruleset := range sheet.Rulesets(selector) {
		if _, ok := ruleset.Declaration(declaration.Property); ok {
			return sheet, false
		}
	}

	result := sheet.Clone()
	added := &Declaration{Property: declaration.Property, Value: declaration.Value}
	if rulesets := result.Rulesets(selector); len(rulesets) > 0 {
		rulesets[0].Declarations = append(rulesets[0].Declarations, added)
		return result, true
	}
	result.Nodes = append(result.Nodes, &Ruleset{Selector: selector, Declarations: []*Declaration{added}})
	return result, true
}

func decodeAlignment(value string) Alignment {
	switch strings.TrimSpace(value) {
	case "flex-start":
		return AlignmentStart
	case "flex-end":
		return AlignmentEnd
	default:
		return AlignmentCenter
	}
}

func encodeAlignment(alignment Alignment) string {
	switch alignment {
	case AlignmentStart:
		return "flex-start"
	case AlignmentEnd:
		return "flex-end"
	default:
		return "center"
	}
}

func decodeBorderRadius(value string) BorderRadiusStyle {
	switch value {
	case "9999px":
		return FullBorderRadius()
	case "0":
		return NoBorderRadius()
	default:
		return RoundedBorderRadius(value)
	}
}

func encodeBorderRadius(style BorderRadiusStyle) string {
	switch style.Type {
	case BorderRadiusNone:
		return "0"
	case BorderRadiusRoundedFull:
		return "9999px"
	default:
		return style.Radius
	}
}
