package render

import (
	"strconv"
	"strings"

	"travelchat/internal/chat"
)

// NoDestination is the notice shown in place of a missing destination.
const NoDestination = "No destination information available"

// sectionKind says how a section prefers to show its content.
type sectionKind int

const (
	sectionList sectionKind = iota
	sectionText
)

type section struct {
	title   string
	icon    Icon
	kind    sectionKind
	content chat.Entry
}

// destinationSections lists the guide sections in display order.
func destinationSections(d chat.Details) []section {
	return []section{
		{title: "Top Attractions", icon: IconLandmark, kind: sectionList, content: d.Attractions},
		{title: "Local Cuisine", icon: IconUtensils, kind: sectionList, content: d.Cuisine},
		{title: "Best Time to Visit", icon: IconCalendar, kind: sectionText, content: d.BestTime},
		{title: "Transportation", icon: IconBus, kind: sectionText, content: d.Transportation},
		{title: "Travel Tips", icon: IconInfo, kind: sectionList, content: d.Tips},
	}
}

// DestinationCard renders a destination guide: a location header, a two-column
// grid of the non-empty sections, and the narrative response when present.
// A nil destination renders only the NoDestination notice.
func (r Renderer) DestinationCard(d *chat.Destination) Node {
	if d == nil {
		return Node{Kind: KindNotice, Tone: ToneWarning, Text: NoDestination}
	}

	grid := Node{Kind: KindGrid, Columns: 2}
	for _, s := range destinationSections(d.Details) {
		if n, ok := renderSection(s); ok {
			grid.Children = append(grid.Children, n)
		}
	}

	card := Node{
		Kind: KindCard,
		Tone: ToneNeutral,
		Children: []Node{
			{Kind: KindHeader, Icon: IconMapPin, Text: d.Location},
			grid,
		},
	}
	if d.Response != "" {
		card.Children = append(card.Children, textNode(KindNarrative, d.Response))
	}
	return card
}

// DestinationCardJSON renders a destination decoded from arbitrary JSON.
// Anything but a JSON object renders the NoDestination notice.
func (r Renderer) DestinationCardJSON(data []byte) Node {
	return r.DestinationCard(chat.DecodeDestination(data))
}

func renderSection(s section) (Node, bool) {
	if s.content.Empty() {
		return Node{}, false
	}
	n := Node{
		Kind: KindSection,
		Key:  s.title,
		Children: []Node{
			{Kind: KindHeading, Icon: s.icon, Text: s.title},
		},
	}
	switch {
	case s.kind == sectionList && s.content.IsList:
		list := Node{Kind: KindList}
		for i, item := range s.content.Items {
			list.Children = append(list.Children, Node{
				Kind: KindItem,
				Key:  strconv.Itoa(i),
				Text: item,
			})
		}
		n.Children = append(n.Children, list)
	case s.content.IsList:
		n.Children = append(n.Children, textNode(KindText, strings.Join(s.content.Items, ", ")))
	default:
		n.Children = append(n.Children, textNode(KindText, s.content.Text))
	}
	return n, true
}
