// Package recommend is the suggestion engine: it gathers candidate articles
// for a set of interest categories, works out which interests each article
// really belongs to, and keeps the done/total/score summary for a session.
package recommend

import "strings"

const categoryNamespace = "category:"

// Normalize canonicalizes a category name for comparison: lower case,
// underscores and hyphens read as spaces, whitespace collapsed and trimmed.
func Normalize(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

// StripNamespace removes a leading "Category:" prefix, in any case.
func StripNamespace(name string) string {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) >= len(categoryNamespace) && strings.EqualFold(trimmed[:len(categoryNamespace)], categoryNamespace) {
		return strings.TrimSpace(trimmed[len(categoryNamespace):])
	}
	return trimmed
}

// SameCategory reports whether two labels name the same category.
func SameCategory(a, b string) bool {
	return Normalize(StripNamespace(a)) == Normalize(StripNamespace(b))
}
