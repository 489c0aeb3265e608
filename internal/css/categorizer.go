package css

import (
	"sort"
	"strings"
)

// PropertyCategory groups related CSS properties
type PropertyCategory string

// Property categories used in build statistics
const (
	CategoryVisual     PropertyCategory = "Visual"
	CategoryLayout     PropertyCategory = "Layout"
	CategoryTypography PropertyCategory = "Typography"
	CategoryEffects    PropertyCategory = "Effects"
)

// propertyCategories maps CSS property names to categories
var propertyCategories = map[string]PropertyCategory{
	// Visual
	"background-color": CategoryVisual,
	"color":            CategoryVisual,
	"border-color":     CategoryVisual,
	"border-radius":    CategoryVisual,
	"border-width":     CategoryVisual,
	"opacity":          CategoryVisual,
	"fill":             CategoryVisual,
	"stroke":           CategoryVisual,

	// Typography
	"font-size":            CategoryTypography,
	"font-weight":          CategoryTypography,
	"font-style":           CategoryTypography,
	"line-height":          CategoryTypography,
	"text-align":           CategoryTypography,
	"text-decoration-line": CategoryTypography,
	"text-transform":       CategoryTypography,
	"text-overflow":        CategoryTypography,
	"white-space":          CategoryTypography,

	// Effects
	"filter":                     CategoryEffects,
	"transition-property":        CategoryEffects,
	"transition-duration":        CategoryEffects,
	"transition-timing-function": CategoryEffects,
	"cursor":                     CategoryEffects,
	"pointer-events":             CategoryEffects,
	"user-select":                CategoryEffects,
}

// CategorizeProperty determines the category of a CSS property
func CategorizeProperty(name string) PropertyCategory {
	// Check exact match
	if cat, exists := propertyCategories[name]; exists {
		return cat
	}

	// Check for border-* properties
	if strings.HasPrefix(name, "border-") {
		return CategoryVisual
	}

	if strings.HasPrefix(name, "transition-") || strings.HasPrefix(name, "animation-") {
		return CategoryEffects
	}

	// Default to Layout: display, position, spacing, sizing, flex
	return CategoryLayout
}

// CategoryCount is the number of blocks whose primary property falls in a category
type CategoryCount struct {
	Category PropertyCategory `json:"category"`
	Blocks   int              `json:"blocks"`
}

// CountCategories tallies blocks by the category of their first declaration,
// sorted by category name.
func CountCategories(blocks []Block) []CategoryCount {
	counts := make(map[PropertyCategory]int)
	for _, b := range blocks {
		if len(b.Decls) == 0 {
			continue
		}
		counts[CategorizeProperty(b.Decls[0].Property)]++
	}

	result := make([]CategoryCount, 0, len(counts))
	for cat, n := range counts {
		result = append(result, CategoryCount{Category: cat, Blocks: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Category < result[j].Category
	})
	return result
}
