// Package css assembles resolved utility rules into ordered CSS blocks,
// renders them, and parses rendered CSS back for comparison.
package css

import (
	"sort"
	"strings"

	"github.com/yacobolo/tailgen/internal/utility"
)

// Block is one CSS rule: selector, optional media condition, declarations
type Block struct {
	Selector string                `json:"selector"`        // ".md\:hover\:p-4:hover"
	Media    string                `json:"media,omitempty"` // "(min-width: 768px)", "" for top level
	Token    string                `json:"token,omitempty"` // originating token, empty for parsed blocks
	Decls    []utility.Declaration `json:"declarations"`    // in render order
}

// Key identifies a block across builds.
func (b Block) Key() string {
	return b.Media + "|" + b.Selector
}

// Assemble deduplicates rules by token (first occurrence wins), orders them
// and converts them to blocks.
//
// Sort key: media layer (base first, then screens in theme order), media
// condition, grammar registration order, token text. The result depends only
// on the set of rules, never on the order they were discovered in.
func Assemble(rules []utility.Rule) []Block {
	unique := make([]utility.Rule, 0, len(rules))
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.Token] {
			continue
		}
		seen[r.Token] = true
		unique = append(unique, r)
	}

	type keyed struct {
		rule  utility.Rule
		layer int
		media string
	}
	items := make([]keyed, len(unique))
	for i, r := range unique {
		items[i] = keyed{rule: r, layer: r.Layer(), media: r.MediaQuery()}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.layer != b.layer {
			return a.layer < b.layer
		}
		if a.media != b.media {
			return a.media < b.media
		}
		if a.rule.Order != b.rule.Order {
			return a.rule.Order < b.rule.Order
		}
		return a.rule.Token < b.rule.Token
	})

	blocks := make([]Block, len(items))
	for i, it := range items {
		blocks[i] = Block{
			Selector: "." + EscapeClass(it.rule.Token) + it.rule.PseudoSuffix(),
			Media:    it.media,
			Token:    it.rule.Token,
			Decls:    it.rule.Declarations(),
		}
	}
	return blocks
}

// EscapeClass escapes a class name for use in a selector:
// "md:w-1/2" → "md\:w-1\/2", "2xl:p-4" → "\32 xl\:p-4"
func EscapeClass(class string) string {
	var b strings.Builder
	b.Grow(len(class) + 8)

	for i := 0; i < len(class); i++ {
		c := class[i]
		switch {
		case isDigit(c) && (i == 0 || (i == 1 && class[0] == '-')):
			// identifiers cannot start with a digit
			b.WriteString(`\3`)
			b.WriteByte(c)
			b.WriteByte(' ')
		case isIdentByte(c):
			b.WriteByte(c)
		default:
			b.WriteByte('\\')
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || isDigit(c) ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c >= 0x80
}
