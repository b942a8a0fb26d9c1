// Package filter selects the line items shown in a listing.
package filter

import (
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
	"golang.org/x/text/cases"
)

// All matches every priority.
const All domain.Priority = "ALL"

// Criteria narrows a dataset for display. The zero value matches everything.
type Criteria struct {
	Priority domain.Priority
	Query    string
}

// Apply returns the matching items in their original order. The input is
// never modified.
func Apply(items domain.Dataset, c Criteria) domain.Dataset {
	fold := cases.Fold()
	query := ""
	if strings.TrimSpace(c.Query) != "" {
		query = fold.String(c.Query)
	}

	out := make(domain.Dataset, 0, len(items))
	for _, item := range items {
		if !matchesPriority(item, c.Priority) {
			continue
		}
		if query != "" && !strings.Contains(fold.String(haystack(item)), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesPriority(item domain.LineItem, p domain.Priority) bool {
	return p == "" || p == All || item.Priority == p
}

func haystack(item domain.LineItem) string {
	return item.ID + " " + item.Name + " " + item.Description
}
