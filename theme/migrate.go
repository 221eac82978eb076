package theme

import "strings"

const darkColorSchemeQuery = "(prefers-color-scheme:dark)"

// MigrateMediaQueryToClassBased rewrites the legacy dark theme, a `:root`
// ruleset inside `@media (prefers-color-scheme: dark)`, into a top-level
// `:root.dark` ruleset. Other rules inside the media block stay there; a
// block left empty is dropped. Migrating twice has no effect.
func MigrateMediaQueryToClassBased(sheet *Stylesheet) (*Stylesheet, bool) {
	result := sheet.Clone()
	changed := false

	nodes := make([]Node, 0, len(result.Nodes))
	for _, node := range result.Nodes {
		atRule, ok := node.(*AtRule)
		if !ok || !isDarkColorSchemeMedia(atRule) {
			nodes = append(nodes, node)
			continue
		}

		remaining := make([]Node, 0, len(atRule.Nodes))
		var promoted []Node
		for _, child := range atRule.Nodes {
			ruleset, ok := child.(*Ruleset)
			if ok && ruleset.Selector == ":root" {
				ruleset.Selector = DarkSelector
				promoted = append(promoted, ruleset)
				continue
			}
			remaining = append(remaining, child)
		}
		if len(promoted) == 0 {
			nodes = append(nodes, node)
			continue
		}

		changed = true
		if len(remaining) > 0 {
			atRule.Nodes = remaining
			nodes = append(nodes, atRule)
		}
		nodes = append(nodes, promoted...)
	}

	result.Nodes = nodes
	return result, changed
}

func isDarkColorSchemeMedia(rule *AtRule) bool {
	if !strings.EqualFold(rule.Name, "@media") || !rule.Block {
		return false
	}
	compact := strings.Join(strings.Fields(strings.ToLower(rule.Prelude)), "")
	return compact == darkColorSchemeQuery
}
