package utility

import (
	"sort"
	"strings"

	"github.com/yacobolo/tailgen/internal/theme"
)

// Generator resolves tokens against a registry.
type Generator struct {
	registry *Registry
}

// NewGenerator creates a generator. A nil registry uses DefaultRegistry.
func NewGenerator(registry *Registry) *Generator {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Generator{registry: registry}
}

// Registry returns the generator's registry.
func (g *Generator) Registry() *Registry {
	return g.registry
}

// Generate resolves every token and returns the rules that matched.
// Tokens are treated as a set: duplicates are collapsed and input order is
// irrelevant. Unrecognized tokens are dropped.
func (g *Generator) Generate(th *theme.Theme, tokens []string) []Rule {
	unique := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		unique = append(unique, tok)
	}
	sort.Strings(unique)

	rules := make([]Rule, 0, len(unique))
	for _, tok := range unique {
		if rule, ok := g.Resolve(th, tok); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Resolve matches a single token. The first grammar in registration order
// that matches wins.
func (g *Generator) Resolve(th *theme.Theme, token string) (Rule, bool) {
	names, utility := splitVariants(token)
	if utility == "" {
		return Rule{}, false
	}

	variants, ok := parseVariants(names, th)
	if !ok {
		return Rule{}, false
	}

	important := strings.HasPrefix(utility, "!")
	if important {
		utility = utility[1:]
	}

	rule, order, ok := g.match(utility, th)
	if !ok {
		return Rule{}, false
	}
	rule.Token = token
	rule.Order = order
	rule.Variants = variants
	rule.Important = important
	return rule, true
}

// match returns the rule of the first grammar that matches utility, with the
// grammar's registration index. An arbitrary literal that no grammar's data
// type accepts goes to the first scale grammar of its namespace.
func (g *Generator) match(utility string, th *theme.Theme) (Rule, int, bool) {
	for i, grammar := range g.registry.grammars {
		if rule, ok := grammar.Match(utility, th); ok {
			return rule, i, true
		}
	}

	if !strings.HasSuffix(utility, "]") {
		return Rule{}, 0, false
	}
	for i, grammar := range g.registry.grammars {
		sg, ok := grammar.(ScaleGrammar)
		if !ok || !sg.Recognizes(utility) {
			continue
		}
		sg.Arbitrary = AnyValue
		rule, ok := sg.Match(utility, th)
		return rule, i, ok
	}
	return Rule{}, 0, false
}

// Explanation describes why a token did or did not resolve
type Explanation struct {
	Token      string
	Resolved   bool
	Recognized bool     // some grammar claims the token's namespace
	Grammars   []string // grammars that claim it, in order
	BadVariant string   // first unknown variant, if any
}

// Explain reports how a token relates to the registry. It is used by lint to
// find near misses such as "brightness-999"; builds never call it.
func (g *Generator) Explain(th *theme.Theme, token string) Explanation {
	exp := Explanation{Token: token}

	names, utility := splitVariants(token)
	for _, name := range names {
		if _, ok := parseVariants([]string{name}, th); !ok {
			exp.BadVariant = name
			break
		}
	}

	utility = strings.TrimPrefix(utility, "!")
	for _, grammar := range g.registry.grammars {
		if grammar.Recognizes(utility) {
			exp.Recognized = true
			exp.Grammars = append(exp.Grammars, grammar.Name())
		}
	}

	_, exp.Resolved = g.Resolve(th, token)
	return exp
}
