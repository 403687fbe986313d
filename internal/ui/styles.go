package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors used throughout the UI
const (
	ColorAccent    = "35"  // Green - user bubbles, flight cards, badges
	ColorAccentBg  = "194" // Pale green - user bubble background
	ColorHighlight = "205" // Magenta - spinner, key hints
	ColorDanger    = "196" // Red - errors
	ColorMuted     = "241" // Gray - dimmed text, hints
	ColorText      = "252" // Light gray - normal text
	ColorBorder    = "245" // Neutral bubble and card borders
	ColorWarning   = "178" // Yellow - notices
	ColorTag       = "25"  // Blue - airline tag
	ColorTagBg     = "153" // Pale blue - airline tag background
)

// Styles contains shared style definitions used by the chat view and the
// display-tree renderer.
var Styles = struct {
	Title  lipgloss.Style // Bold accent color - app title
	Hint   lipgloss.Style // Help/hint text (muted color)
	Status lipgloss.Style // Pending query status line
	Error  lipgloss.Style // Inline error text

	// Bubbles
	BubbleUser lipgloss.Style // Accent bubble, placed on the right
	BubbleBot  lipgloss.Style // Neutral bordered bubble, placed on the left

	// Cards
	Card       lipgloss.Style // Destination card
	CardFlight lipgloss.Style // Flight card with thick accent left edge
	Notice     lipgloss.Style // Warning box in place of a card

	// Modals
	Modal      lipgloss.Style
	ModalTitle lipgloss.Style

	// Card content
	Header    lipgloss.Style // Card title line, underlined
	Heading   lipgloss.Style // Section title
	Text      lipgloss.Style // Section body text
	Narrative lipgloss.Style // Trailing narrative with a rule above
	Badge     lipgloss.Style // Rank chip
	Route     lipgloss.Style
	Price     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Tag       lipgloss.Style // Airline chip
	Muted     lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Status: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	BubbleUser: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Background(lipgloss.Color(ColorAccentBg)).
		Foreground(lipgloss.Color("22")).
		Padding(0, 1),
	BubbleBot: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1),
	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1),
	CardFlight: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	Notice: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorWarning)).
		Foreground(lipgloss.Color(ColorWarning)).
		Padding(0, 1),
	Modal: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2).
		Margin(1),
	ModalTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Header: lipgloss.NewStyle().
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(ColorBorder)),
	Heading: lipgloss.NewStyle().
		Bold(true),
	Text: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Narrative: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color(ColorBorder)),
	Badge: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("231")).
		Background(lipgloss.Color(ColorAccent)).
		Padding(0, 1),
	Route: lipgloss.NewStyle().
		Bold(true),
	Price: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	Label: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Value: lipgloss.NewStyle().
		Bold(true),
	Tag: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorTag)).
		Background(lipgloss.Color(ColorTagBg)).
		Padding(0, 1),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
}
