package theme

// ScaleOverlay extends one scale. Entries keep the order they were declared in.
type ScaleOverlay struct {
	Name    string
	Entries []Entry
}

// Overlay is the ordered content of a `theme.extend` section.
type Overlay []ScaleOverlay

// Scale returns the overlay entries for name, merged across repeated sections.
func (o Overlay) Scale(name string) []Entry {
	var out []Entry
	for _, so := range o {
		if so.Name == name {
			out = append(out, so.Entries...)
		}
	}
	return out
}

// Resolve merges overlays into base and returns the effective theme.
//
// For a scale present in both, overlay entries are appended after the base
// entries; an overlay key equal to an existing key replaces the value at its
// original position. A scale only present in an overlay becomes a new scale.
// An overlay with no entries leaves the scale untouched. base is not modified.
func Resolve(base *Theme, overlays ...Overlay) *Theme {
	resolved := &Theme{scales: make(map[string]*Scale)}
	if base != nil {
		for name, s := range base.scales {
			resolved.scales[name] = s
		}
	}

	// Scales are cloned lazily, only once an overlay touches them
	cloned := make(map[string]bool)

	for _, overlay := range overlays {
		for _, so := range overlay {
			if len(so.Entries) == 0 {
				continue
			}

			s, exists := resolved.scales[so.Name]
			switch {
			case !exists:
				s = NewScale()
				cloned[so.Name] = true
			case !cloned[so.Name]:
				s = s.clone()
				cloned[so.Name] = true
			}

			for _, e := range so.Entries {
				s.set(e.Key, e.Value)
			}
			resolved.scales[so.Name] = s
		}
	}

	return resolved
}
