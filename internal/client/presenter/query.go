package presenter

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
)

// Order is the display order of a collection.
type Order string

const (
	OrderNewest Order = "newest"
	OrderOldest Order = "oldest"
)

func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case OrderNewest, "":
		return OrderNewest, nil
	case OrderOldest:
		return OrderOldest, nil
	default:
		return "", fmt.Errorf("unknown order %q (want newest or oldest)", s)
	}
}

// Query narrows and pages a collection.
type Query struct {
	// Search matches title, url and excerpt, case-insensitively.
	Search string
	// Tag keeps only items carrying this tag.
	Tag   string
	Order Order
	// Limit is how many matching rows are shown; 0 shows all.
	Limit int
}

// Page is the visible slice of a collection.
type Page struct {
	Items   []models.Item
	Matched int
	More    bool
}

// Apply filters, orders and cuts items. The input is not modified.
func Apply(items []models.Item, q Query) Page {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	matched := make([]models.Item, 0, len(items))
	for _, it := range items {
		if q.Tag != "" && !it.HasTag(q.Tag) {
			continue
		}
		if needle != "" && !matches(it, needle) {
			continue
		}
		matched = append(matched, it)
	}

	if q.Order == OrderOldest {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	p := Page{Items: matched, Matched: len(matched)}
	if q.Limit > 0 && len(matched) > q.Limit {
		p.Items = matched[:q.Limit]
		p.More = true
	}
	return p
}

func matches(it models.Item, needle string) bool {
	for _, field := range []string{it.Title, it.URL, it.Excerpt} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
