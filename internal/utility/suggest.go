package utility

import (
	"strings"

	"github.com/yacobolo/tailgen/internal/theme"
)

// Suggest proposes a resolvable token for a near miss by replacing the scale
// key with the closest key of the claiming grammar's scale. Variants and the
// important and negative markers are kept.
func (g *Generator) Suggest(th *theme.Theme, token string) (string, bool) {
	_, raw := splitVariants(token)
	prefix := token[:len(token)-len(raw)]

	utility := raw
	var marks string
	if strings.HasPrefix(utility, "!") {
		marks += "!"
		utility = utility[1:]
	}
	if strings.HasPrefix(utility, "-") {
		marks += "-"
		utility = utility[1:]
	}

	for _, grammar := range g.registry.grammars {
		sg, ok := grammar.(ScaleGrammar)
		if !ok || !strings.HasPrefix(utility, sg.Prefix+"-") {
			continue
		}
		key := utility[len(sg.Prefix)+1:]
		if key == "" || isArbitrary(key) {
			continue
		}

		best, ok := closestKey(th.Scale(sg.Scale), key)
		if !ok {
			continue
		}
		candidate := prefix + marks + sg.Prefix + "-" + best
		if _, ok := g.Resolve(th, candidate); ok {
			return candidate, true
		}
	}
	return "", false
}

// closestKey returns the scale key with the smallest edit distance to key,
// first in scale order on ties. Keys more than half of key's length away are
// not considered close.
func closestKey(scale *theme.Scale, key string) (string, bool) {
	limit := max(1, len(key)/2)
	best, bestDist := "", limit+1
	for _, k := range scale.Keys() {
		if k == "DEFAULT" {
			continue
		}
		if d := editDistance(key, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best, best != ""
}

// editDistance is the Levenshtein distance over bytes.
func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
