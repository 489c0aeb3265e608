// Package utility resolves candidate class tokens into CSS rules using an
// ordered registry of utility grammars.
package utility

import "strings"

// Declaration is one `property: value` pair
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Rule is a resolved utility class. Identity is the originating token.
type Rule struct {
	Token     string        // "md:hover:brightness-25"
	Utility   string        // grammar name: "brightness"
	Order     int           // grammar registration index
	Variants  []Variant     // parsed from the token prefix, outermost first
	Property  string        // primary property: "filter"
	Value     string        // resolved value, byte-for-byte: ".25"
	Arbitrary bool          // value came from a [bracket] literal
	Negative  bool          // "-m-4"
	Important bool          // "!p-4"
	Decls     []Declaration // rendered declarations
}

// Declarations returns the rule's declarations, with !important applied.
func (r Rule) Declarations() []Declaration {
	if !r.Important {
		return r.Decls
	}
	out := make([]Declaration, len(r.Decls))
	for i, d := range r.Decls {
		out[i] = Declaration{Property: d.Property, Value: d.Value + " !important"}
	}
	return out
}

// PseudoSuffix returns the combined pseudo-class suffix of the rule's variants.
func (r Rule) PseudoSuffix() string {
	var b strings.Builder
	for _, v := range r.Variants {
		if v.Kind == VariantPseudo {
			b.WriteString(v.Selector)
		}
	}
	return b.String()
}

// MediaQuery returns the combined media condition, or "" for base rules.
func (r Rule) MediaQuery() string {
	var queries []string
	for _, v := range r.Variants {
		if v.Kind == VariantMedia {
			queries = append(queries, v.Query)
		}
	}
	return strings.Join(queries, " and ")
}

// Layer orders media groups: 0 for base rules, otherwise the highest variant rank.
func (r Rule) Layer() int {
	layer := 0
	for _, v := range r.Variants {
		if v.Kind == VariantMedia && v.Rank > layer {
			layer = v.Rank
		}
	}
	return layer
}
