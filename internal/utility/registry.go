package utility

// Registry is a closed, ordered list of grammars. Registration order is the
// match precedence and the primary output sort key.
type Registry struct {
	grammars []Grammar
}

// NewRegistry creates a registry with grammars in the given order.
func NewRegistry(grammars ...Grammar) *Registry {
	r := &Registry{grammars: make([]Grammar, len(grammars))}
	copy(r.grammars, grammars)
	return r
}

// With returns a new registry with extra grammars appended after the existing ones.
func (r *Registry) With(grammars ...Grammar) *Registry {
	all := make([]Grammar, 0, len(r.grammars)+len(grammars))
	all = append(all, r.grammars...)
	all = append(all, grammars...)
	return &Registry{grammars: all}
}

// Grammars returns the registered grammars in order.
func (r *Registry) Grammars() []Grammar {
	out := make([]Grammar, len(r.grammars))
	copy(out, r.grammars)
	return out
}

// Len returns the number of registered grammars.
func (r *Registry) Len() int {
	return len(r.grammars)
}

// DefaultRegistry returns the built-in grammars.
func DefaultRegistry() *Registry {
	var g []Grammar

	// Layout
	g = append(g,
		static("container", "width", "100%"),
		static("block", "display", "block"),
		static("inline-block", "display", "inline-block"),
		static("inline", "display", "inline"),
		static("flex", "display", "flex"),
		static("inline-flex", "display", "inline-flex"),
		static("grid", "display", "grid"),
		static("table", "display", "table"),
		static("contents", "display", "contents"),
		static("hidden", "display", "none"),
		static("static", "position", "static"),
		static("fixed", "position", "fixed"),
		static("absolute", "position", "absolute"),
		static("relative", "position", "relative"),
		static("sticky", "position", "sticky"),
		static("table-auto", "table-layout", "auto"),
		static("table-fixed", "table-layout", "fixed"),
	)
	for _, axis := range []struct{ class, property string }{
		{"overflow", "overflow"},
		{"overflow-x", "overflow-x"},
		{"overflow-y", "overflow-y"},
	} {
		for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
			g = append(g, static(axis.class+"-"+v, axis.property, v))
		}
	}

	// Positioning
	g = append(g,
		ScaleGrammar{Prefix: "inset", Scale: "inset", Properties: []string{"inset"}, Negatable: true},
		ScaleGrammar{Prefix: "inset-x", Scale: "inset", Properties: []string{"left", "right"}, Negatable: true},
		ScaleGrammar{Prefix: "inset-y", Scale: "inset", Properties: []string{"top", "bottom"}, Negatable: true},
		ScaleGrammar{Prefix: "top", Scale: "inset", Properties: []string{"top"}, Negatable: true},
		ScaleGrammar{Prefix: "right", Scale: "inset", Properties: []string{"right"}, Negatable: true},
		ScaleGrammar{Prefix: "bottom", Scale: "inset", Properties: []string{"bottom"}, Negatable: true},
		ScaleGrammar{Prefix: "left", Scale: "inset", Properties: []string{"left"}, Negatable: true},
		ScaleGrammar{Prefix: "z", Scale: "zIndex", Properties: []string{"z-index"}, Negatable: true},
	)

	// Flexbox
	g = append(g,
		static("flex-row", "flex-direction", "row"),
		static("flex-col", "flex-direction", "column"),
		static("flex-wrap", "flex-wrap", "wrap"),
		static("flex-nowrap", "flex-wrap", "nowrap"),
		static("flex-1", "flex", "1 1 0%"),
		static("flex-auto", "flex", "1 1 auto"),
		static("flex-none", "flex", "none"),
		static("grow", "flex-grow", "1"),
		static("grow-0", "flex-grow", "0"),
		static("shrink", "flex-shrink", "1"),
		static("shrink-0", "flex-shrink", "0"),
	)
	for _, v := range []string{"start", "end", "center", "baseline", "stretch"} {
		g = append(g, static("items-"+v, "align-items", flexValue(v)))
	}
	for _, v := range []string{"start", "end", "center", "between", "around", "evenly"} {
		g = append(g, static("justify-"+v, "justify-content", flexValue(v)))
	}
	g = append(g,
		ScaleGrammar{Prefix: "gap", Scale: "spacing", Properties: []string{"gap"}},
		ScaleGrammar{Prefix: "gap-x", Scale: "spacing", Properties: []string{"column-gap"}},
		ScaleGrammar{Prefix: "gap-y", Scale: "spacing", Properties: []string{"row-gap"}},
	)

	// Spacing
	for _, s := range []struct {
		prefix     string
		properties []string
	}{
		{"p", []string{"padding"}},
		{"px", []string{"padding-left", "padding-right"}},
		{"py", []string{"padding-top", "padding-bottom"}},
		{"pt", []string{"padding-top"}},
		{"pr", []string{"padding-right"}},
		{"pb", []string{"padding-bottom"}},
		{"pl", []string{"padding-left"}},
	} {
		g = append(g, ScaleGrammar{Prefix: s.prefix, Scale: "spacing", Properties: s.properties})
	}
	for _, s := range []struct {
		prefix     string
		properties []string
	}{
		{"m", []string{"margin"}},
		{"mx", []string{"margin-left", "margin-right"}},
		{"my", []string{"margin-top", "margin-bottom"}},
		{"mt", []string{"margin-top"}},
		{"mr", []string{"margin-right"}},
		{"mb", []string{"margin-bottom"}},
		{"ml", []string{"margin-left"}},
	} {
		g = append(g, ScaleGrammar{Prefix: s.prefix, Scale: "spacing", Properties: s.properties, Negatable: true})
	}

	// Sizing
	g = append(g,
		ScaleGrammar{Prefix: "size", Scale: "size", Properties: []string{"width", "height"}},
		ScaleGrammar{Prefix: "w", Scale: "width", Properties: []string{"width"}},
		ScaleGrammar{Prefix: "min-w", Scale: "minWidth", Properties: []string{"min-width"}},
		ScaleGrammar{Prefix: "max-w", Scale: "maxWidth", Properties: []string{"max-width"}},
		ScaleGrammar{Prefix: "h", Scale: "height", Properties: []string{"height"}},
	)

	// Typography
	g = append(g,
		StaticGrammar{Class: "truncate", Decls: []Declaration{
			{Property: "overflow", Value: "hidden"},
			{Property: "text-overflow", Value: "ellipsis"},
			{Property: "white-space", Value: "nowrap"},
		}},
		static("uppercase", "text-transform", "uppercase"),
		static("lowercase", "text-transform", "lowercase"),
		static("capitalize", "text-transform", "capitalize"),
		static("italic", "font-style", "italic"),
		static("underline", "text-decoration-line", "underline"),
		static("line-through", "text-decoration-line", "line-through"),
		static("text-left", "text-align", "left"),
		static("text-center", "text-align", "center"),
		static("text-right", "text-align", "right"),
		static("text-justify", "text-align", "justify"),
		ScaleGrammar{ID: "font-size", Prefix: "text", Scale: "fontSize", Properties: []string{"font-size"}, Arbitrary: LengthValue},
		ScaleGrammar{ID: "font-weight", Prefix: "font", Scale: "fontWeight", Properties: []string{"font-weight"}},
		ScaleGrammar{ID: "line-height", Prefix: "leading", Scale: "lineHeight", Properties: []string{"line-height"}},
		ScaleGrammar{ID: "text-color", Prefix: "text", Scale: "colors", Properties: []string{"color"}, Arbitrary: ColorValue},
	)

	// Backgrounds and borders
	g = append(g,
		ScaleGrammar{ID: "bg-color", Prefix: "bg", Scale: "colors", Properties: []string{"background-color"}},
		ScaleGrammar{ID: "border-width", Prefix: "border", Scale: "borderWidth", Properties: []string{"border-width"}, Arbitrary: LengthValue},
		ScaleGrammar{ID: "border-color", Prefix: "border", Scale: "colors", Properties: []string{"border-color"}, Arbitrary: ColorValue},
		ScaleGrammar{Prefix: "rounded", Scale: "borderRadius", Properties: []string{"border-radius"}},
		ScaleGrammar{ID: "fill", Prefix: "fill", Scale: "colors", Properties: []string{"fill"}},
		ScaleGrammar{ID: "stroke", Prefix: "stroke", Scale: "colors", Properties: []string{"stroke"}},
	)

	// Effects and filters
	g = append(g,
		ScaleGrammar{Prefix: "opacity", Scale: "opacity", Properties: []string{"opacity"}},
		ScaleGrammar{Prefix: "brightness", Scale: "brightness", Properties: []string{"filter"}, Template: "brightness({})"},
		ScaleGrammar{Prefix: "contrast", Scale: "contrast", Properties: []string{"filter"}, Template: "contrast({})"},
		ScaleGrammar{Prefix: "saturate", Scale: "saturate", Properties: []string{"filter"}, Template: "saturate({})"},
	)

	// Transitions and interactivity
	g = append(g,
		transition("transition", "color, background-color, border-color, fill, stroke, opacity, box-shadow, transform, filter"),
		transition("transition-all", "all"),
		transition("transition-colors", "color, background-color, border-color, fill, stroke"),
		transition("transition-opacity", "opacity"),
		transition("transition-transform", "transform"),
		static("transition-none", "transition-property", "none"),
		ScaleGrammar{Prefix: "duration", Scale: "transitionDuration", Properties: []string{"transition-duration"}},
		static("cursor-pointer", "cursor", "pointer"),
		static("cursor-default", "cursor", "default"),
		static("pointer-events-none", "pointer-events", "none"),
		static("pointer-events-auto", "pointer-events", "auto"),
		static("select-none", "user-select", "none"),
	)

	return NewRegistry(g...)
}

func transition(class, properties string) StaticGrammar {
	return StaticGrammar{Class: class, Decls: []Declaration{
		{Property: "transition-property", Value: properties},
		{Property: "transition-timing-function", Value: "cubic-bezier(0.4, 0, 0.2, 1)"},
		{Property: "transition-duration", Value: "150ms"},
	}}
}

func flexValue(v string) string {
	switch v {
	case "start":
		return "flex-start"
	case "end":
		return "flex-end"
	case "between":
		return "space-between"
	case "around":
		return "space-around"
	case "evenly":
		return "space-evenly"
	}
	return v
}
