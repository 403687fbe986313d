// Package chat defines the messages exchanged in a travel chat: plain text,
// destination guides and flight options.
//
// Messages arrive as loosely-shaped JSON. Decoding is lenient: fields with an
// unexpected type decode to their zero value instead of failing the whole
// message, and presence follows the truthiness rules in jsonutil.
package chat

import (
	"encoding/json"
	"time"

	"travelchat/internal/jsonutil"

	"github.com/google/uuid"
)

const (
	// TypeUser marks a message typed by the user. Any other type is a reply.
	TypeUser = "user"
	// TypeBot is the type used for replies produced by the search service.
	TypeBot = "bot"

	// QueryDestinationInfo marks a message carrying destination fields.
	QueryDestinationInfo = "destination_info"
	// QueryFlightSearch marks a message carrying flight options.
	QueryFlightSearch = "flight_search"
)

// Message is one entry of a chat transcript. When QueryType is
// QueryDestinationInfo the destination fields live directly on the message.
type Message struct {
	ID        string
	Type      string
	QueryType string
	CreatedAt time.Time

	// Flights is nil when the message has no flights sequence. A non-nil empty
	// slice is an (empty) sequence.
	Flights []Flight
	Text    string

	Location string
	Details  Details
	Response string
}

// wireMessage is the JSON shape of Message.
type wireMessage struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type,omitempty"`
	QueryType string     `json:"query_type,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Flights   *[]Flight  `json:"flights,omitempty"`
	Content   string     `json:"content,omitempty"`
	Location  string     `json:"location,omitempty"`
	Details   *Details   `json:"details,omitempty"`
	Response  string     `json:"response,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	w := wireMessage{
		ID:        m.ID,
		Type:      m.Type,
		QueryType: m.QueryType,
		Content:   m.Text,
		Location:  m.Location,
		Response:  m.Response,
	}
	if !m.CreatedAt.IsZero() {
		t := m.CreatedAt
		w.CreatedAt = &t
	}
	if m.Flights != nil {
		flights := m.Flights
		w.Flights = &flights
	}
	if m.QueryType == QueryDestinationInfo || !m.Details.Empty() {
		d := m.Details
		w.Details = &d
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler. A JSON value that is not an
// object decodes to the zero Message.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := jsonutil.UnmarshalWithContext(data, &raw, "decode message"); err != nil {
		return err
	}
	*m = messageFromValue(raw)
	return nil
}

func messageFromValue(raw interface{}) Message {
	obj, ok := jsonutil.AsObject(raw)
	if !ok {
		return Message{}
	}
	m := Message{
		ID:        jsonutil.ToString(obj["id"]),
		Type:      jsonutil.GetString(obj, "type"),
		QueryType: jsonutil.GetString(obj, "query_type"),
		Location:  jsonutil.ToString(obj["location"]),
		Details:   detailsFromValue(obj["details"]),
	}
	if jsonutil.Truthy(obj["content"]) {
		m.Text = jsonutil.ToString(obj["content"])
	}
	if jsonutil.Truthy(obj["response"]) {
		m.Response = jsonutil.ToString(obj["response"])
	}
	if ts, ok := obj["created_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			m.CreatedAt = t
		}
	}
	if items, ok := jsonutil.AsSlice(obj["flights"]); ok {
		m.Flights = make([]Flight, 0, len(items))
		for _, item := range items {
			m.Flights = append(m.Flights, flightFromValue(item))
		}
	}
	return m
}

// Destination projects the destination fields carried by the message.
func (m Message) Destination() *Destination {
	return &Destination{
		Location: m.Location,
		Details:  m.Details,
		Response: m.Response,
	}
}

// IsUser reports whether the message was typed by the user.
func (m Message) IsUser() bool {
	return m.Type == TypeUser
}

func newMessage(typ string) Message {
	return Message{
		ID:        uuid.NewString(),
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
}

// NewUserMessage returns a user message with the given text.
func NewUserMessage(text string) Message {
	m := newMessage(TypeUser)
	m.Text = text
	return m
}

// NewTextReply returns a plain text reply.
func NewTextReply(text string) Message {
	m := newMessage(TypeBot)
	m.Text = text
	return m
}

// NewFlightsReply returns a reply listing flight options. A nil slice is
// stored as an empty sequence so the reply still renders as a flight grid.
func NewFlightsReply(flights []Flight) Message {
	m := newMessage(TypeBot)
	m.QueryType = QueryFlightSearch
	if flights == nil {
		flights = []Flight{}
	}
	m.Flights = flights
	return m
}

// NewDestinationReply returns a reply carrying destination fields.
func NewDestinationReply(d Destination) Message {
	m := newMessage(TypeBot)
	m.QueryType = QueryDestinationInfo
	m.Location = d.Location
	m.Details = d.Details
	m.Response = d.Response
	return m
}
