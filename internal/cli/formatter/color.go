package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// PriorityColor returns the style for a priority bucket.
func PriorityColor(p domain.Priority) lipgloss.Style {
	switch p {
	case domain.PriorityP0:
		return StyleRed
	case domain.PriorityP1:
		return StyleYellow
	case domain.PriorityP2:
		return StyleBlue
	default:
		return StyleDim
	}
}

// PriorityPill renders a colored priority marker such as "● P0".
func PriorityPill(p domain.Priority) string {
	return PriorityColor(p).Render("● " + string(p))
}

// ProvenanceBadge describes where the active dataset came from.
func ProvenanceBadge(p domain.Provenance) string {
	switch p {
	case domain.ProvenanceLinkDraft:
		return StylePurple.Render("◆ SHARED DRAFT") + Dim(" from link")
	case domain.ProvenanceLocalDraft:
		return StyleYellow.Render("◆ LOCAL DRAFT") + Dim(" saved on this device")
	case domain.ProvenancePublished:
		return StyleGreen.Render("● PUBLISHED")
	default:
		return StyleDim.Render("○ NOT LOADED")
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
