package ui

import (
	"strings"

	"travelchat/internal/render"
	"travelchat/internal/ui/textutil"

	"github.com/charmbracelet/lipgloss"
)

const (
	// GridBreakpoint is the narrowest width at which grids use more than one
	// column.
	GridBreakpoint = 72
	// MaxBubbleWidth caps bubbles on wide terminals.
	MaxBubbleWidth = 100
	// userIndent keeps user bubbles off the left edge.
	userIndent = 12
	gridGap    = 2
)

// Glyphs drawn for display-tree icons.
var iconGlyphs = map[render.Icon]string{
	render.IconMapPin:   "◉",
	render.IconLandmark: "⌂",
	render.IconUtensils: "♨",
	render.IconCalendar: "▦",
	render.IconBus:      "⇆",
	render.IconInfo:     "ℹ",
}

// RenderNode draws a display tree into a block of terminal text at most
// width columns wide.
func RenderNode(n render.Node, width int) string {
	if width < 8 {
		width = 8
	}
	switch n.Kind {
	case render.KindBubble:
		return renderBubble(n, width)
	case render.KindCard:
		if _, ranked := n.Child(render.KindBadge); ranked {
			return renderFlightCard(n, width)
		}
		return box(Styles.Card, width, func(w int) string { return renderChildren(n, w) })
	case render.KindNotice:
		return box(Styles.Notice, width, func(w int) string { return textutil.Wrap(n.Text, w) })
	case render.KindHeader:
		return Styles.Header.Width(width).Render(withIcon(n, width))
	case render.KindGrid:
		return renderGrid(n, width)
	case render.KindSection:
		return renderChildren(n, width)
	case render.KindHeading:
		return Styles.Heading.Render(withIcon(n, width))
	case render.KindList:
		return renderList(n, width)
	case render.KindText, render.KindPre:
		return Styles.Text.Render(textutil.Wrap(n.Text, width))
	case render.KindNarrative:
		return Styles.Narrative.Width(width).Render(textutil.Wrap(n.Text, width))
	case render.KindBadge:
		return Styles.Badge.Render(n.Text)
	case render.KindRow:
		return renderRow(n, width)
	case render.KindRoute:
		return Styles.Route.Render(textutil.Truncate(n.Text, width))
	case render.KindPrice:
		return Styles.Price.Render(n.Text)
	case render.KindField:
		return renderChildren(n, width)
	case render.KindLabel:
		return Styles.Label.Render(n.Text)
	case render.KindValue:
		return Styles.Value.Render(n.Text)
	case render.KindFooter:
		return renderFooter(n, width)
	case render.KindTag:
		return Styles.Tag.Render(n.Text)
	case render.KindMuted:
		return Styles.Muted.Render(n.Text)
	default:
		parts := []string{}
		if n.Text != "" {
			parts = append(parts, textutil.Wrap(n.Text, width))
		}
		if len(n.Children) > 0 {
			parts = append(parts, renderChildren(n, width))
		}
		return strings.Join(parts, "\n")
	}
}

// box renders content inside style so that the whole box is width columns
// wide. content receives the inner width.
func box(style lipgloss.Style, width int, content func(inner int) string) string {
	inner := width - style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	return style.Width(width - style.GetHorizontalBorderSize() - style.GetHorizontalMargins()).
		Render(content(inner))
}

func renderChildren(n render.Node, width int) string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		if s := RenderNode(c, width); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func withIcon(n render.Node, width int) string {
	text := n.Text
	if glyph, ok := iconGlyphs[n.Icon]; ok {
		text = glyph + " " + text
	}
	return textutil.Truncate(text, width)
}

// renderBubble places user bubbles on the right and everything else on the
// left. User bubbles shrink to their content.
func renderBubble(n render.Node, width int) string {
	if width > MaxBubbleWidth {
		width = MaxBubbleWidth
	}
	if n.Align != render.AlignRight {
		return box(Styles.BubbleBot, width, func(w int) string { return renderChildren(n, w) })
	}

	avail := width - userIndent
	if avail < 8 {
		avail = width
	}
	inner := avail - Styles.BubbleUser.GetHorizontalFrameSize()
	content := renderChildren(n, inner)
	bubble := Styles.BubbleUser.Render(content)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble)
}

// renderGrid lays children out in rows of n.Columns cells, or a single
// column below GridBreakpoint.
func renderGrid(n render.Node, width int) string {
	if len(n.Children) == 0 {
		return ""
	}
	cols := n.Columns
	if cols < 1 || width < GridBreakpoint {
		cols = 1
	}
	cellWidth := (width - gridGap*(cols-1)) / cols

	var rows []string
	for start := 0; start < len(n.Children); start += cols {
		end := min(start+cols, len(n.Children))
		cells := make([]string, 0, cols*2)
		for i, c := range n.Children[start:end] {
			if i > 0 {
				cells = append(cells, strings.Repeat(" ", gridGap))
			}
			cells = append(cells, lipgloss.NewStyle().Width(cellWidth).Render(RenderNode(c, cellWidth)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n\n")
}

func renderList(n render.Node, width int) string {
	lines := make([]string, 0, len(n.Children))
	for _, item := range n.Children {
		text := textutil.Wrap(item.Text, width-2)
		text = strings.ReplaceAll(text, "\n", "\n  ")
		lines = append(lines, Styles.Text.Render("• "+text))
	}
	return strings.Join(lines, "\n")
}

// renderRow spreads the first child to the left edge and the second to the
// right edge, truncating the left one when both do not fit.
func renderRow(n render.Node, width int) string {
	if len(n.Children) != 2 {
		return renderChildren(n, width)
	}
	right := RenderNode(n.Children[1], width)
	left := RenderNode(n.Children[0], width-textutil.Width(right)-1)
	return textutil.Spread(left, right, width)
}

func renderFooter(n render.Node, width int) string {
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, RenderNode(c, width))
	}
	return textutil.Truncate(strings.Join(parts, "  "), width)
}

// renderFlightCard draws the rank badge on the card's top-left corner, above
// the body.
func renderFlightCard(n render.Node, width int) string {
	var badge string
	body := render.Node{Kind: render.KindSection}
	for _, c := range n.Children {
		if c.Kind == render.KindBadge {
			badge = RenderNode(c, width)
			continue
		}
		body.Children = append(body.Children, c)
	}
	card := box(Styles.CardFlight, width, func(w int) string { return renderChildren(body, w) })
	if badge == "" {
		return card
	}
	return badge + "\n" + card
}
