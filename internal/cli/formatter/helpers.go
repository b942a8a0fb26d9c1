package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/alexanderramin/estimo/internal/estimate"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts are shown the way the client reads them: Italian grouping, no
// decimals, euro sign last.
var euroPrinter = message.NewPrinter(language.Italian)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatEuro renders an amount rounded to whole euros, e.g. "12.345 €".
func FormatEuro(v float64) string {
	return euroPrinter.Sprintf("%d €", int64(estimate.Round(v)))
}

// FormatRate renders an hourly rate, e.g. "45 €/h".
func FormatRate(rate float64) string {
	return FormatEuro(rate) + "/h"
}

// FormatHours renders hours with an "h" suffix, e.g. "12.5h".
func FormatHours(h domain.Hours) string {
	return h.String() + "h"
}

// FormatPercent renders a buffer percentage, e.g. "20%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%s%%", domain.Hours(p).String())
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
