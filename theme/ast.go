package theme

import (
	"fmt"
	"io"
	"strings"
)

// Indentation is the prefix written before each line of a node.
type Indentation string

func (i Indentation) Indent() Indentation {
	return i + "  "
}

// Node is a stylesheet element: a ruleset, an at-rule or, inside at-rule
// blocks, a bare declaration.
type Node interface {
	Stringify(w io.Writer, indent Indentation)
	clone() Node
}

type Stylesheet struct {
	Nodes []Node
}

type Ruleset struct {
	Selector     string
	Declarations []*Declaration
}

// AtRule is an at-rule such as @media. Rules without a block (@import) have
// Block false and no Nodes.
type AtRule struct {
	Name    string
	Prelude string
	Block   bool
	Nodes   []Node
}

type Declaration struct {
	Property string
	Value    string
}

func (s *Stylesheet) Stringify(w io.Writer, indent Indentation) {
	if s == nil {
		return
	}
	for _, node := range s.Nodes {
		node.Stringify(w, indent)
	}
}

func (s *Stylesheet) String() string {
	var builder strings.Builder
	s.Stringify(&builder, Indentation(""))
	return builder.String()
}

func (s *Stylesheet) Clone() *Stylesheet {
	if s == nil {
		return &Stylesheet{}
	}
	return &Stylesheet{Nodes: cloneNodes(s.Nodes)}
}

// Rulesets returns the top-level rulesets with the given selector.
func (s *Stylesheet) Rulesets(selector string) []*Ruleset {
	if s == nil {
		return nil
	}
	var matched []*Ruleset
	for _, node := range s.Nodes {
		ruleset, ok := node.(*Ruleset)
		if ok && ruleset.Selector == selector {
			matched = append(matched, ruleset)
		}
	}
	return matched
}

func (r *Ruleset) Stringify(w io.Writer, indent Indentation) {
	fmt.Fprintf(w, "%s%s {\n", indent, r.Selector)
	for _, declaration := range r.Declarations {
		declaration.Stringify(w, indent.Indent())
	}
	fmt.Fprintf(w, "%s}\n", indent)
}

func (r *Ruleset) String() string {
	var builder strings.Builder
	r.Stringify(&builder, Indentation(""))
	return builder.String()
}

// Declaration returns the last declaration of property, which is the one a
// browser applies.
func (r *Ruleset) Declaration(property string) (*Declaration, bool) {
	for idx := len(r.Declarations) - 1; idx >= 0; idx-- {
		if r.Declarations[idx].Property == property {
			return r.Declarations[idx], true
		}
	}
	return nil, false
}

func (r *Ruleset) clone() Node {
	copied := &Ruleset{Selector: r.Selector, Declarations: make([]*Declaration, 0, len(r.Declarations))}
	for _, declaration := range r.Declarations {
		copied.Declarations = append(copied.Declarations, &Declaration{Property: declaration.Property, Value: declaration.Value})
	}
	return copied
}

func (a *AtRule) Stringify(w io.Writer, indent Indentation) {
	header := a.Name
	if a.Prelude != "" {
		header += " " + a.Prelude
	}
	if !a.Block {
		fmt.Fprintf(w, "%s%s;\n", indent, header)
		return
	}
	fmt.Fprintf(w, "%s%s {\n", indent, header)
	for _, node := range a.Nodes {
		node.Stringify(w, indent.Indent())
	}
	fmt.Fprintf(w, "%s}\n", indent)
}

func (a *AtRule) clone() Node {
	return &AtRule{Name: a.Name, Prelude: a.Prelude, Block: a.Block, Nodes: cloneNodes(a.Nodes)}
}

func (d *Declaration) Stringify(w io.Writer, indent Indentation) {
	fmt.Fprintf(w, "%s%s: %s;\n", indent, d.Property, d.Value)
}

func (d *Declaration) clone() Node {
	return &Declaration{Property: d.Property, Value: d.Value}
}

func cloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	copied := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		copied = append(copied, node.clone())
	}
	return copied
}
