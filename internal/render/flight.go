package render

import (
	"strconv"

	"travelchat/internal/chat"
)

// FlightCard renders one flight option with its 1-based rank in a corner
// badge. Unparsable times and prices show placeholders; the rest of the card
// is unaffected.
func (r Renderer) FlightCard(f chat.Flight, rank int) Node {
	loc := r.location()
	return Node{
		Kind: KindCard,
		Tone: ToneAccent,
		Children: []Node{
			textNode(KindBadge, "#"+strconv.Itoa(rank)),
			{
				Kind: KindRow,
				Children: []Node{
					textNode(KindRoute, f.Departure+" → "+f.Arrival),
					textNode(KindPrice, FormatPrice(f.Price).Or(PriceUnavailable)),
				},
			},
			flightField("departure", "Departure", FormatClock(f.DepartureTime, loc).Or(TimeUnavailable)),
			flightField("arrival", "Arrival", FormatClock(f.ArrivalTime, loc).Or(TimeUnavailable)),
			{
				Kind: KindFooter,
				Children: []Node{
					textNode(KindTag, f.Airline),
					textNode(KindMuted, FormatDuration(f.DepartureTime, f.ArrivalTime, loc).Or(DurationUnavailable)),
				},
			},
		},
	}
}

func flightField(key, label, value string) Node {
	return Node{
		Kind: KindField,
		Key:  key,
		Children: []Node{
			textNode(KindLabel, label),
			textNode(KindValue, value),
		},
	}
}
