package utility

import (
	"strings"

	"github.com/yacobolo/tailgen/internal/theme"
)

// Grammar recognizes one family of utility classes.
// utility is the token with variants and the important marker removed.
type Grammar interface {
	Name() string
	// Recognizes reports whether utility belongs to this grammar's namespace,
	// regardless of whether its value resolves.
	Recognizes(utility string) bool
	Match(utility string, th *theme.Theme) (Rule, bool)
}

// DataType breaks ties between grammars that share a prefix, such as
// "text-[17px]" (font size) and "text-[red]" (color). A literal no typed
// grammar accepts falls back to the first grammar of the namespace.
type DataType int

const (
	// AnyValue accepts every literal.
	AnyValue DataType = iota
	// ColorValue accepts hex colors, color functions and color keywords.
	ColorValue
	// LengthValue accepts literals that are clearly not colors.
	LengthValue
)

type literalKind int

const (
	literalOther literalKind = iota
	literalColor
	literalAmbiguous // var(...) may hold anything
)

var colorFuncs = []string{"rgb(", "rgba(", "hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklab(", "oklch(", "color-mix(", "color("}

// namedColors are the CSS color keywords, lower case.
var namedColors = map[string]bool{}

func init() {
	for _, name := range strings.Fields(`
		transparent currentcolor
		aliceblue antiquewhite aqua aquamarine azure beige bisque black
		blanchedalmond blue blueviolet brown burlywood cadetblue chartreuse
		chocolate coral cornflowerblue cornsilk crimson cyan darkblue darkcyan
		darkgoldenrod darkgray darkgreen darkgrey darkkhaki darkmagenta
		darkolivegreen darkorange darkorchid darkred darksalmon darkseagreen
		darkslateblue darkslategray darkslategrey darkturquoise darkviolet
		deeppink deepskyblue dimgray dimgrey dodgerblue firebrick floralwhite
		forestgreen fuchsia gainsboro ghostwhite gold goldenrod gray green
		greenyellow grey honeydew hotpink indianred indigo ivory khaki lavender
		lavenderblush lawngreen lemonchiffon lightblue lightcoral lightcyan
		lightgoldenrodyellow lightgray lightgreen lightgrey lightpink
		lightsalmon lightseagreen lightskyblue lightslategray lightslategrey
		lightsteelblue lightyellow lime limegreen linen magenta maroon
		mediumaquamarine mediumblue mediumorchid mediumpurple mediumseagreen
		mediumslateblue mediumspringgreen mediumturquoise mediumvioletred
		midnightblue mintcream mistyrose moccasin navajowhite navy oldlace
		olive olivedrab orange orangered orchid palegoldenrod palegreen
		paleturquoise palevioletred papayawhip peachpuff peru pink plum
		powderblue purple rebeccapurple red rosybrown royalblue saddlebrown
		salmon sandybrown seagreen seashell sienna silver skyblue slateblue
		slategray slategrey snow springgreen steelblue tan teal thistle tomato
		turquoise violet wheat white whitesmoke yellow yellowgreen`) {
		namedColors[name] = true
	}
}

// classifyLiteral guesses what an arbitrary literal holds
func classifyLiteral(value string) literalKind {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.HasPrefix(lower, "var("):
		return literalAmbiguous
	case strings.HasPrefix(lower, "#"), namedColors[lower]:
		return literalColor
	}
	for _, fn := range colorFuncs {
		if strings.HasPrefix(lower, fn) {
			return literalColor
		}
	}
	return literalOther
}

func (d DataType) accepts(value string) bool {
	switch d {
	case ColorValue:
		return classifyLiteral(value) == literalColor
	case LengthValue:
		return classifyLiteral(value) == literalOther
	default:
		return true
	}
}

// ScaleGrammar matches `{prefix}-{key}` against a theme scale, and
// `{prefix}-[literal]` as an arbitrary value.
type ScaleGrammar struct {
	ID         string   // grammar name, defaults to Prefix
	Prefix     string   // "brightness"
	Scale      string   // theme scale name
	Properties []string // target properties, all receive the same value
	Template   string   // "brightness({})"; empty means the value as-is
	Arbitrary  DataType // which [literals] this grammar claims when its prefix is shared
	Negatable  bool     // "-m-4" → calc(value * -1)
}

// Name returns the grammar identifier.
func (g ScaleGrammar) Name() string {
	if g.ID != "" {
		return g.ID
	}
	return g.Prefix
}

// Recognizes implements Grammar.
func (g ScaleGrammar) Recognizes(utility string) bool {
	utility = strings.TrimPrefix(utility, "-")
	return utility == g.Prefix || strings.HasPrefix(utility, g.Prefix+"-")
}

// Match implements Grammar.
func (g ScaleGrammar) Match(utility string, th *theme.Theme) (Rule, bool) {
	negative := strings.HasPrefix(utility, "-")
	if negative {
		if !g.Negatable {
			return Rule{}, false
		}
		utility = utility[1:]
	}

	var key string
	switch {
	case utility == g.Prefix:
		// bare prefix: "rounded", "border"
		key = "DEFAULT"
	case strings.HasPrefix(utility, g.Prefix+"-"):
		key = utility[len(g.Prefix)+1:]
		if key == "DEFAULT" {
			return Rule{}, false
		}
	default:
		return Rule{}, false
	}

	rule := Rule{
		Utility:  g.Name(),
		Negative: negative,
	}

	if isArbitrary(key) {
		// Arbitrary values bypass the scale entirely
		value := decodeArbitrary(key)
		if !validArbitrary(value) || !g.Arbitrary.accepts(value) {
			return Rule{}, false
		}
		rule.Value = value
		rule.Arbitrary = true
	} else {
		value, ok := th.Lookup(g.Scale, key)
		if !ok {
			return Rule{}, false
		}
		rule.Value = value
	}

	rendered := rule.Value
	if negative {
		rendered = "calc(" + rendered + " * -1)"
	}
	if g.Template != "" {
		rendered = strings.ReplaceAll(g.Template, "{}", rendered)
	}

	rule.Decls = make([]Declaration, len(g.Properties))
	for i, prop := range g.Properties {
		rule.Decls[i] = Declaration{Property: prop, Value: rendered}
	}
	if len(g.Properties) > 0 {
		rule.Property = g.Properties[0]
	}

	return rule, true
}

// StaticGrammar matches one exact class with fixed declarations.
type StaticGrammar struct {
	Class string
	Decls []Declaration
}

// Name returns the class name.
func (g StaticGrammar) Name() string { return g.Class }

// Recognizes implements Grammar.
func (g StaticGrammar) Recognizes(utility string) bool { return utility == g.Class }

// Match implements Grammar.
func (g StaticGrammar) Match(utility string, _ *theme.Theme) (Rule, bool) {
	if utility != g.Class || len(g.Decls) == 0 {
		return Rule{}, false
	}

	decls := make([]Declaration, len(g.Decls))
	copy(decls, g.Decls)

	return Rule{
		Utility:  g.Class,
		Property: decls[0].Property,
		Value:    decls[0].Value,
		Decls:    decls,
	}, true
}

// static is shorthand for a single-declaration StaticGrammar
func static(class, property, value string) StaticGrammar {
	return StaticGrammar{Class: class, Decls: []Declaration{{Property: property, Value: value}}}
}
