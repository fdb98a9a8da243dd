// Package query is the pure search/filter/sort pipeline applied to catalog
// data before display. It never mutates its input.
package query

import (
	"sort"
	"strings"

	"github.com/ljcl79/shophub/internal/domain"
)

// Sort keys accepted by Apply. An empty key preserves filter order.
const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortRatingDesc = "rating-desc"
)

type Options struct {
	Search   string
	Category string
	Sort     string
}

// Apply filters by case-insensitive title substring and exact category
// (empty category means any), then stable-sorts by the requested key.
// Ties keep their relative catalog fetch order.
func Apply(products []domain.Product, opts Options) []domain.Product {
	search := strings.ToLower(opts.Search)

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		filtered = append(filtered, p)
	}

	switch opts.Sort {
	case SortPriceAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price < filtered[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Price > filtered[j].Price
		})
	case SortRatingDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Rate() > filtered[j].Rate()
		})
	}

	return filtered
}
