// Package estimate derives hour totals and currency figures from a dataset.
// Every function here is pure; callers recompute whenever the dataset or
// pricing changes.
package estimate

import (
	"math"

	"github.com/alexanderramin/estimo/internal/domain"
)

// Totals holds the aggregate figures for one dataset and pricing pair.
type Totals struct {
	ByPriority    map[domain.Priority]domain.Hours
	GrandTotal    domain.Hours
	BufferedTotal domain.Hours
	Cost          float64
	BufferedCost  float64
}

// For returns the hours summed for a single priority bucket.
func (t Totals) For(p domain.Priority) domain.Hours {
	return t.ByPriority[p]
}

// ComputeTotals sums hours per priority and derives the buffered and
// currency figures. Rounding happens once on the aggregate values, never
// per item. Items outside the known priority buckets contribute to no
// bucket and therefore to no total; ingestion rejects them before they
// get here.
func ComputeTotals(items domain.Dataset, pricing domain.PricingConfig) Totals {
	byP := make(map[domain.Priority]domain.Hours, 3)
	for _, p := range domain.Priorities() {
		byP[p] = 0
	}
	for _, item := range items {
		if _, ok := byP[item.Priority]; !ok {
			continue
		}
		byP[item.Priority] += item.Total()
	}

	var grand domain.Hours
	for _, p := range domain.Priorities() {
		grand += byP[p]
	}

	buffered := domain.Hours(Round(grand.Float() * pricing.BufferFactor()))
	return Totals{
		ByPriority:    byP,
		GrandTotal:    grand,
		BufferedTotal: buffered,
		Cost:          grand.Float() * pricing.Rate,
		BufferedCost:  Round(buffered.Float() * pricing.Rate),
	}
}

// Round rounds half up to the nearest integer.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// ItemCost is the unrounded cost of one item at the configured rate.
func ItemCost(item domain.LineItem, pricing domain.PricingConfig) float64 {
	return item.Total().Float() * pricing.Rate
}

// ItemPricing is the per-row economic breakdown used by the pricing export.
type ItemPricing struct {
	Hours        domain.Hours
	Cost         float64
	BufferedCost float64
}

// PriceItem rounds each figure of a single row independently.
func PriceItem(item domain.LineItem, pricing domain.PricingConfig) ItemPricing {
	cost := ItemCost(item, pricing)
	return ItemPricing{
		Hours:        item.Total(),
		Cost:         Round(cost),
		BufferedCost: Round(cost * pricing.BufferFactor()),
	}
}
