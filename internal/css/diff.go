package css

import "github.com/yacobolo/tailgen/internal/utility"

// Diff is the difference between two assembled stylesheets
type Diff struct {
	Added   []Block `json:"added"`
	Removed []Block `json:"removed"`
	Changed []Block `json:"changed"` // same selector and media, new declarations
}

// Empty reports whether the stylesheets are equivalent.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare diffs prev against next by selector and media condition.
// Added and Changed follow next's order; Removed follows prev's order.
func Compare(prev, next []Block) Diff {
	prevByKey := make(map[string]Block, len(prev))
	for _, b := range prev {
		prevByKey[b.Key()] = b
	}
	nextKeys := make(map[string]bool, len(next))

	var d Diff
	for _, b := range next {
		nextKeys[b.Key()] = true
		old, exists := prevByKey[b.Key()]
		switch {
		case !exists:
			d.Added = append(d.Added, b)
		case !sameDecls(old.Decls, b.Decls):
			d.Changed = append(d.Changed, b)
		}
	}

	for _, b := range prev {
		if !nextKeys[b.Key()] {
			d.Removed = append(d.Removed, b)
		}
	}

	return d
}

func sameDecls(a, b []utility.Declaration) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
