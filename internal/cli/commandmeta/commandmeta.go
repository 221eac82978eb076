package commandmeta

import "strings"

type OutputPolicy uint8

const (
	OutputPolicyStructured OutputPolicy = iota
	OutputPolicyTextOnly
)

// EmitsExecutionStatusPath reports whether the command prints an OK or
// ERROR status line after it ran.
func EmitsExecutionStatusPath(path string) bool {
	switch strings.TrimSpace(path) {
	case "portalkit resource pull",
		"portalkit resource push",
		"portalkit resource remove-locale",
		"portalkit theme set",
		"portalkit theme reset",
		"portalkit theme migrate",
		"portalkit theme ensure-declaration",
		"portalkit repo init",
		"portalkit repo commit",
		"portalkit config use",
		"portalkit config add",
		"portalkit config delete":
		return true
	default:
		return false
	}
}

func OutputPolicyForPath(path string) OutputPolicy {
	switch strings.TrimSpace(path) {
	case "portalkit template render",
		"portalkit theme encode",
		"portalkit completion":
		return OutputPolicyTextOnly
	default:
		return OutputPolicyStructured
	}
}
