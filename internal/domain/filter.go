package domain

import "strings"

// FilterProducts narrows products down to the ones matching all three
// criteria. Category and brand are exact, case-sensitive matches with "all"
// as a wildcard; the search term matches case-insensitively as a substring
// of the product name or description, with the empty string matching
// everything. The result preserves the original relative order and never
// mutates the input slice.
func FilterProducts(products []Product, category, brand, search string) []Product {
	term := strings.ToLower(search)

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if category != FilterAll && p.Category != category {
			continue
		}
		if brand != FilterAll && p.Brand != brand {
			continue
		}
		if term != "" && !matchesSearch(p, term) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesSearch(p Product, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowerTerm) ||
		strings.Contains(strings.ToLower(p.Description), lowerTerm)
}
