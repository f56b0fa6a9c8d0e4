// Package query builds the weighted, multi-field, synonym-expanded,
// proximity-aware query trees used by the retrieval strategies.
package query

import (
	"fmt"
	"strings"
)

// Field names a searchable document field.
type Field string

const (
	FieldTitle Field = "title"
	FieldBody  Field = "body"
)

// Node is one node of a composed query tree.
// A boost of exactly 0 on a group means the group is omitted entirely,
// so no constructed tree ever contains a zero-boost group.
type Node interface {
	fmt.Stringer
	isNode()
}

// BoostedTerm is a single term with its per-term boost.
// Literal topic terms carry boost 1; synonyms carry the profile's
// synonym boost.
type BoostedTerm struct {
	Term  string
	Boost float64
}

// TermGroup is a disjunction of boosted single terms against one field,
// scaled as a whole by Boost.
type TermGroup struct {
	Field Field
	Terms []BoostedTerm
	Boost float64
}

func (*TermGroup) isNode() {}

func (g *TermGroup) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, t := range g.Terms {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%s", g.Field, t.Term)
		if t.Boost != 1 {
			fmt.Fprintf(&sb, "^%g", t.Boost)
		}
	}
	fmt.Fprintf(&sb, ")^%g", g.Boost)
	return sb.String()
}

// Pair is one pairwise proximity clause: the two terms must occur within
// Distance tokens of each other, in either order.
type Pair struct {
	A, B     string
	Distance int
}

// ProximityGroup is a disjunction of pairwise proximity clauses against
// one field, boosted as one unit.
type ProximityGroup struct {
	Field Field
	Pairs []Pair
	Boost float64
}

func (*ProximityGroup) isNode() {}

func (g *ProximityGroup) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, p := range g.Pairs {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:\"%s %s\"~%d", g.Field, p.A, p.B, p.Distance)
	}
	fmt.Fprintf(&sb, ")^%g", g.Boost)
	return sb.String()
}

// Disjunction combines child nodes with OR semantics. Children carry
// their own boosts; the disjunction itself is unweighted.
type Disjunction struct {
	Children []Node
}

func (*Disjunction) isNode() {}

func (d *Disjunction) String() string {
	parts := make([]string, len(d.Children))
	for i, c := range d.Children {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
