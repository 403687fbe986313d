package render

import (
	"strconv"

	"travelchat/internal/chat"
)

// MessageBubble renders a chat message. User messages are right-aligned with
// the accent tone; everything else is left-aligned and neutral. The body is
// chosen by m.Classify.
func (r Renderer) MessageBubble(m chat.Message) Node {
	bubble := Node{Kind: KindBubble, Key: m.ID, Align: AlignLeft, Tone: ToneNeutral}
	if m.IsUser() {
		bubble.Align = AlignRight
		bubble.Tone = ToneAccent
	}
	if body, ok := r.messageBody(m.Classify()); ok {
		bubble.Children = []Node{body}
	}
	return bubble
}

func (r Renderer) messageBody(c chat.Content) (Node, bool) {
	switch c := c.(type) {
	case chat.DestinationContent:
		return r.DestinationCard(c.Destination), true
	case chat.FlightsContent:
		return r.flightGrid(c.Flights), true
	case chat.TextContent:
		return textNode(KindPre, c.Text), true
	default:
		return Node{}, false
	}
}

// flightGrid ranks flights by position. Cards are keyed by flight ID, or by
// position when the flight has none.
func (r Renderer) flightGrid(flights []chat.Flight) Node {
	grid := Node{Kind: KindGrid, Columns: 2}
	for i, f := range flights {
		card := r.FlightCard(f, i+1)
		card.Key = f.ID
		if card.Key == "" {
			card.Key = strconv.Itoa(i)
		}
		grid.Children = append(grid.Children, card)
	}
	return grid
}
