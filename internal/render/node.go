// Package render turns chat messages into display trees.
//
// A display tree is a plain value (Node) that says what to show and how it is
// grouped, without committing to a medium. The terminal client draws it with
// lipgloss (see ui.RenderNode); the HTTP server returns it as JSON.
//
// Rendering never fails: missing or malformed input degrades to fixed
// placeholder text.
package render

import "strings"

// Kind identifies the role of a node in the tree.
type Kind string

const (
	KindBubble    Kind = "bubble"    // chat bubble wrapper
	KindCard      Kind = "card"      // bordered card
	KindNotice    Kind = "notice"    // standalone notice in place of a card
	KindHeader    Kind = "header"    // card title line with icon
	KindGrid      Kind = "grid"      // responsive grid, Columns wide at most
	KindSection   Kind = "section"   // titled group inside a grid
	KindHeading   Kind = "heading"   // section title with icon
	KindList      Kind = "list"      // bulleted list
	KindItem      Kind = "item"      // list item
	KindText      Kind = "text"      // wrapped text block
	KindPre       Kind = "pre"       // text block with whitespace preserved
	KindNarrative Kind = "narrative" // trailing text separated from the body
	KindBadge     Kind = "badge"     // rank chip on the card corner
	KindRow       Kind = "row"       // children laid out on one line, spread apart
	KindRoute     Kind = "route"     // departure → arrival
	KindPrice     Kind = "price"
	KindField     Kind = "field" // label over value
	KindLabel     Kind = "label"
	KindValue     Kind = "value"
	KindFooter    Kind = "footer"
	KindTag       Kind = "tag"
	KindMuted     Kind = "muted"
)

// Icon names a glyph. Hosts map names to whatever their medium offers.
type Icon string

const (
	IconMapPin   Icon = "map-pin"
	IconLandmark Icon = "landmark"
	IconUtensils Icon = "utensils"
	IconCalendar Icon = "calendar"
	IconBus      Icon = "bus"
	IconInfo     Icon = "info"
)

// Tone selects the colour treatment of a node.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneAccent  Tone = "accent"
	ToneWarning Tone = "warning"
)

// Align is the horizontal placement of a bubble.
type Align string

const (
	AlignLeft  Align = "left"
	AlignRight Align = "right"
)

// Node is one element of a display tree.
type Node struct {
	Kind     Kind   `json:"kind"`
	Key      string `json:"key,omitempty"`
	Text     string `json:"text,omitempty"`
	Icon     Icon   `json:"icon,omitempty"`
	Tone     Tone   `json:"tone,omitempty"`
	Align    Align  `json:"align,omitempty"`
	Columns  int    `json:"columns,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips the node's children.
func (n Node) Walk(fn func(Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns every node of the given kind, in document order.
func (n Node) Find(kind Kind) []Node {
	var out []Node
	n.Walk(func(c Node) bool {
		if c.Kind == kind {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Child returns the first direct child of the given kind.
func (n Node) Child(kind Kind) (Node, bool) {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c, true
		}
	}
	return Node{}, false
}

// PlainText returns the text of every node, one per line, in document order.
func (n Node) PlainText() string {
	var lines []string
	n.Walk(func(c Node) bool {
		if c.Text != "" {
			lines = append(lines, c.Text)
		}
		return true
	})
	return strings.Join(lines, "\n")
}

func textNode(kind Kind, text string) Node {
	return Node{Kind: kind, Text: text}
}
