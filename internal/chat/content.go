package chat

// Content is what a message shows. Exactly one variant applies to a message;
// see Message.Classify.
type Content interface {
	isContent()
}

// DestinationContent shows a destination guide.
type DestinationContent struct {
	Destination *Destination
}

// FlightsContent shows a list of flight options, possibly empty.
type FlightsContent struct {
	Flights []Flight
}

// TextContent shows preformatted text.
type TextContent struct {
	Text string
}

// EmptyContent shows nothing.
type EmptyContent struct{}

func (DestinationContent) isContent() {}
func (FlightsContent) isContent()     {}
func (TextContent) isContent()        {}
func (EmptyContent) isContent()       {}

// Classify picks the content variant of m. The first match wins:
// destination_info query type, then a flights sequence, then non-empty text.
func (m Message) Classify() Content {
	switch {
	case m.QueryType == QueryDestinationInfo:
		return DestinationContent{Destination: m.Destination()}
	case m.Flights != nil:
		return FlightsContent{Flights: m.Flights}
	case m.Text != "":
		return TextContent{Text: m.Text}
	default:
		return EmptyContent{}
	}
}
