package utility

import (
	"strings"

	"github.com/yacobolo/tailgen/internal/theme"
)

// VariantKind distinguishes selector variants from media variants
type VariantKind int

const (
	// VariantPseudo appends a pseudo-class to the selector (hover:, focus:).
	VariantPseudo VariantKind = iota
	// VariantMedia wraps the rule in a media query (md:, dark:).
	VariantMedia
)

// Variant is a parsed `name:` prefix of a token
type Variant struct {
	Name     string
	Kind     VariantKind
	Selector string // ":hover"
	Query    string // "(min-width: 768px)"
	Rank     int    // media layer: screen position + 1, dark after all screens
}

var pseudoVariants = map[string]string{
	"hover":         ":hover",
	"focus":         ":focus",
	"focus-visible": ":focus-visible",
	"focus-within":  ":focus-within",
	"active":        ":active",
	"visited":       ":visited",
	"disabled":      ":disabled",
	"checked":       ":checked",
	"first":         ":first-child",
	"last":          ":last-child",
	"odd":           ":nth-child(odd)",
	"even":          ":nth-child(even)",
	"placeholder":   "::placeholder",
}

// splitVariants separates "md:hover:p-4" into ["md", "hover"] and "p-4".
// Colons inside [brackets] are part of the utility.
func splitVariants(token string) ([]string, string) {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(token); i++ {
		switch token[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ':':
			if depth == 0 {
				parts = append(parts, token[start:i])
				start = i + 1
			}
		}
	}

	return parts, token[start:]
}

// parseVariants resolves variant names against the theme.
// Returns false if any variant is unknown.
func parseVariants(names []string, th *theme.Theme) ([]Variant, bool) {
	if len(names) == 0 {
		return nil, true
	}

	screens := th.Scale("screens")
	variants := make([]Variant, 0, len(names))

	for _, name := range names {
		if sel, ok := pseudoVariants[name]; ok {
			variants = append(variants, Variant{Name: name, Kind: VariantPseudo, Selector: sel})
			continue
		}

		if name == "dark" {
			variants = append(variants, Variant{
				Name:  name,
				Kind:  VariantMedia,
				Query: "(prefers-color-scheme: dark)",
				Rank:  screens.Len() + 1,
			})
			continue
		}

		if width, ok := screens.Lookup(name); ok {
			variants = append(variants, Variant{
				Name:  name,
				Kind:  VariantMedia,
				Query: "(min-width: " + width + ")",
				Rank:  screens.Position(name) + 1,
			})
			continue
		}

		return nil, false
	}

	return variants, true
}

// isArbitrary reports whether s is a [bracketed] literal
func isArbitrary(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// decodeArbitrary unwraps a [bracketed] literal. Underscores become spaces
// unless escaped with a backslash.
func decodeArbitrary(s string) string {
	inner := s[1 : len(s)-1]
	if !strings.Contains(inner, "_") {
		return inner
	}

	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		switch {
		case c == '\\' && i+1 < len(inner) && inner[i+1] == '_':
			b.WriteByte('_')
			i++
		case c == '_':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// validArbitrary rejects literals that could escape their declaration
func validArbitrary(value string) bool {
	if strings.TrimSpace(value) == "" || strings.ContainsAny(value, ";{}") {
		return false
	}

	depth := 0
	for _, r := range value {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
