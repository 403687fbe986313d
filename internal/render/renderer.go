package render

import (
	"time"

	"travelchat/internal/chat"
)

// Renderer builds display trees. The zero Renderer formats times in UTC.
type Renderer struct {
	// Location is the time zone used to display flight times and to read
	// timestamps that carry no zone.
	Location *time.Location
}

// New returns a Renderer displaying times in loc. A nil loc means time.Local.
func New(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.Local
	}
	return Renderer{Location: loc}
}

func (r Renderer) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

// MessageBubble renders m with a Renderer in the local time zone.
func MessageBubble(m chat.Message) Node {
	return New(nil).MessageBubble(m)
}

// DestinationCard renders d with a Renderer in the local time zone.
func DestinationCard(d *chat.Destination) Node {
	return New(nil).DestinationCard(d)
}

// FlightCard renders f with a Renderer in the local time zone.
func FlightCard(f chat.Flight, rank int) Node {
	return New(nil).FlightCard(f, rank)
}
