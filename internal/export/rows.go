// Package export renders the dataset and its totals as tabular text and
// as a republishable snapshot.
package export

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/estimate"
)

// Row is one line of tabular output. An empty row renders as a blank line.
type Row []string

const (
	HoursFilename    = "estimate_hours.csv"
	PricingFilename  = "estimate_pricing.csv"
	SnapshotFilename = "data.json"
)

// HoursRows lists every item with its effort breakdown, followed by a
// blank separator and the per-priority, grand and buffered summaries.
func HoursRows(items domain.Dataset, totals estimate.Totals, pricing domain.PricingConfig) []Row {
	rows := make([]Row, 0, len(items)+8)
	rows = append(rows, Row{"ID", "Interface", "Priority", "FE", "BE", "INTG", "QA", "Total (h)"})
	for _, item := range items {
		rows = append(rows, Row{
			item.ID,
			item.Name,
			string(item.Priority),
			item.FE.String(),
			item.BE.String(),
			item.Intg.String(),
			item.QA.String(),
			item.Total().String(),
		})
	}
	rows = append(rows, Row{})
	for _, p := range domain.Priorities() {
		rows = append(rows, Row{string(p), totals.For(p).String()})
	}
	rows = append(rows,
		Row{"Total", totals.GrandTotal.String()},
		Row{fmt.Sprintf("Total + buffer %s%%", Number(pricing.BufferPercent)), totals.BufferedTotal.String()},
	)
	return rows
}

// PricingRows lists the economic breakdown per item followed by a summary.
// Callers must check access.OpExportPricing before producing it.
func PricingRows(items domain.Dataset, totals estimate.Totals, pricing domain.PricingConfig) []Row {
	rate := Number(pricing.Rate)
	rows := make([]Row, 0, len(items)+3)
	rows = append(rows, Row{"ID", "Interface", "Priority", "Hours", "Rate €/h", "Total €", "Total+buffer €"})
	for _, item := range items {
		p := estimate.PriceItem(item, pricing)
		rows = append(rows, Row{
			item.ID,
			item.Name,
			string(item.Priority),
			p.Hours.String(),
			rate,
			Number(p.Cost),
			Number(p.BufferedCost),
		})
	}
	rows = append(rows,
		Row{},
		Row{
			"— Summary —", "", "",
			totals.GrandTotal.String(),
			rate,
			Number(estimate.Round(totals.Cost)),
			Number(estimate.Round(totals.BufferedCost)),
		},
	)
	return rows
}

// Number formats a value with the shortest exact representation.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
