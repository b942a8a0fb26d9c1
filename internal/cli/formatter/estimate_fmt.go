package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/estimo/internal/access"
	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/estimate"
	"github.com/alexanderramin/estimo/internal/state"
)

// EstimateView is everything the show command renders.
type EstimateView struct {
	State      state.State
	Items      domain.Dataset
	Totals     estimate.Totals
	Visibility access.Visibility
	Scenarios  []estimate.Scenario
}

// FormatEstimate renders the KPI box, the per-priority totals, the item
// table and, when visible, the rate scenarios.
func FormatEstimate(v EstimateView) string {
	var b strings.Builder

	b.WriteString(Header("Estimate") + "\n")
	b.WriteString(ProvenanceBadge(v.State.Provenance) + "  " + viewLine(v.State.Gate) + "\n\n")

	b.WriteString(FormatKPIs(v.Totals, v.State.Pricing, v.Visibility) + "\n\n")

	b.WriteString(Header("By priority") + "\n")
	b.WriteString(FormatPriorityTotals(v.Totals) + "\n")

	b.WriteString(Header("Interfaces") + "\n")
	if len(v.Items) == 0 {
		b.WriteString(Dim("No interfaces match.") + "\n")
	} else {
		b.WriteString(FormatItemTable(v.Items, v.State.Pricing))
	}

	if v.Visibility.RateScenarios && len(v.Scenarios) > 0 {
		b.WriteString("\n" + Header("Rate scenarios") + "\n")
		b.WriteString(FormatScenarios(v.Scenarios))
	}
	return b.String()
}

func viewLine(g access.Gate) string {
	role := string(g.DisplayedRole())
	switch {
	case g.Previewing():
		return Dim("view: ") + StyleBlue.Render(role) + Dim(" (preview)")
	case g.Authenticated():
		return Dim("view: ") + StyleGreen.Render(role) + Dim(" (signed in)")
	default:
		return Dim("view: ") + StyleFg.Render(role)
	}
}

// FormatKPIs renders the headline totals. The rate line is shown only
// where rate controls are visible.
func FormatKPIs(t estimate.Totals, pricing domain.PricingConfig, vis access.Visibility) string {
	lines := []string{
		fmt.Sprintf("%s  %s", Dim("Total hours   "), Bold(FormatHours(t.GrandTotal))),
		fmt.Sprintf("%s  %s", Dim(fmt.Sprintf("With buffer %-3s", FormatPercent(pricing.BufferPercent))), Bold(FormatHours(t.BufferedTotal))),
		fmt.Sprintf("%s  %s", Dim("Cost          "), Bold(FormatEuro(t.Cost))),
		fmt.Sprintf("%s  %s", Dim("Cost + buffer "), StyleGreen.Bold(true).Render(FormatEuro(t.BufferedCost))),
	}
	if vis.RateControls {
		lines = append(lines, fmt.Sprintf("%s  %s", Dim("Rate          "), FormatRate(pricing.Rate)))
	}
	return RenderBox("", strings.Join(lines, "\n"))
}

// FormatPriorityTotals lists hours per priority with the bucket label.
func FormatPriorityTotals(t estimate.Totals) string {
	rows := make([][]string, 0, 3)
	for _, p := range domain.Priorities() {
		rows = append(rows, []string{PriorityPill(p), p.Label(), FormatHours(t.For(p))})
	}
	return RenderAlignedTable([]string{"PRIORITY", "MEANING", "HOURS"}, rows,
		[]Align{AlignLeft, AlignLeft, AlignRight})
}

// FormatItemTable renders the effort breakdown with each item's cost at
// the current rate.
func FormatItemTable(items domain.Dataset, pricing domain.PricingConfig) string {
	headers := []string{"ID", "INTERFACE", "PRIORITY", "FE", "BE", "INTG", "QA", "TOTAL", "COST"}
	align := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight, AlignRight}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := []string{
			item.ID,
			item.Name,
			PriorityPill(item.Priority),
			item.FE.String(),
			item.BE.String(),
			item.Intg.String(),
			item.QA.String(),
			Bold(item.Total().String()),
			FormatEuro(estimate.ItemCost(item, pricing)),
		}
		rows = append(rows, row)
	}
	return RenderAlignedTable(headers, rows, align)
}

// FormatItemDetail renders one item after an edit.
func FormatItemDetail(item domain.LineItem, pricing domain.PricingConfig) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", Bold(item.ID+" "+item.Name), PriorityPill(item.Priority)))
	if item.Description != "" {
		b.WriteString(Dim(item.Description) + "\n")
	}
	if item.Dependencies != "" {
		b.WriteString(Dim("Depends on: "+item.Dependencies) + "\n")
	}
	b.WriteString("\n")
	for _, f := range domain.EffortFields() {
		h, _ := item.Effort(f)
		b.WriteString(fmt.Sprintf("  %-5s %s\n", strings.ToUpper(string(f)), FormatHours(h)))
	}
	b.WriteString(fmt.Sprintf("  %-5s %s  %s\n", "TOTAL", Bold(FormatHours(item.Total())),
		Dim(FormatEuro(estimate.ItemCost(item, pricing)))))
	return RenderBox("Interface", b.String())
}

// FormatScenarios compares cost at each preset rate, marking the current one.
func FormatScenarios(scenarios []estimate.Scenario) string {
	rows := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		marker := " "
		if s.Selected {
			marker = StyleGreen.Render("●")
		}
		rows = append(rows, []string{marker, FormatRate(s.Rate), FormatEuro(s.Cost), FormatEuro(s.BufferedCost)})
	}
	return RenderAlignedTable([]string{"", "RATE", "COST", "WITH BUFFER"}, rows,
		[]Align{AlignLeft, AlignRight, AlignRight, AlignRight})
}

// FormatLocalDraft summarizes the saved device draft.
func FormatLocalDraft(d *domain.LocalDraft) string {
	if d == nil {
		return RenderBox("Local draft", Dim("No draft saved on this device."))
	}
	var total domain.Hours
	for _, item := range d.Items {
		total += item.Total()
	}
	lines := []string{
		fmt.Sprintf("%s %s", Dim("Revision:"), TruncID(d.Revision)),
		fmt.Sprintf("%s %s", Dim("Saved:   "), HumanTimestamp(d.SavedAt)),
		fmt.Sprintf("%s %d", Dim("Items:   "), len(d.Items)),
		fmt.Sprintf("%s %s", Dim("Hours:   "), FormatHours(total)),
	}
	return RenderBox("Local draft", strings.Join(lines, "\n"))
}

// FormatLoadFailure explains a failed fetch and how to retry.
func FormatLoadFailure(err error) string {
	return StyleRed.Render("✖ Could not load the published estimate") + "\n" +
		Dim(err.Error()) + "\n" +
		Dim("Run the command again to retry.")
}
