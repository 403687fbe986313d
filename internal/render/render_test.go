package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"travelchat/internal/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utc = Renderer{Location: time.UTC}

func decodeMessage(t *testing.T, s string) chat.Message {
	t.Helper()
	var m chat.Message
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func texts(nodes []Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Text)
	}
	return out
}

func hasIcon(n Node, icon Icon) bool {
	found := false
	n.Walk(func(c Node) bool {
		if c.Icon == icon {
			found = true
		}
		return true
	})
	return found
}

func TestDestinationCard_NonObjectRendersNoticeOnly(t *testing.T) {
	for _, raw := range []string{`null`, `"Paris"`, `7`, `[{"location":"Paris"}]`, `false`} {
		t.Run(raw, func(t *testing.T) {
			n := utc.DestinationCardJSON([]byte(raw))
			assert.Equal(t, Node{Kind: KindNotice, Tone: ToneWarning, Text: NoDestination}, n)
		})
	}

	assert.Equal(t, KindNotice, utc.DestinationCard(nil).Kind)
}

func fullDetails() chat.Details {
	return chat.Details{
		Attractions:    chat.ListEntry("Beach", "Temple"),
		Cuisine:        chat.ListEntry("Vindaloo"),
		BestTime:       chat.TextEntry("November to February"),
		Transportation: chat.TextEntry("Scooters"),
		Tips:           chat.ListEntry("Carry cash"),
	}
}

func TestDestinationCard_SuppressesEmptySections(t *testing.T) {
	tests := []struct {
		title string
		icon  Icon
		clear func(d *chat.Details, e chat.Entry)
	}{
		{"Top Attractions", IconLandmark, func(d *chat.Details, e chat.Entry) { d.Attractions = e }},
		{"Local Cuisine", IconUtensils, func(d *chat.Details, e chat.Entry) { d.Cuisine = e }},
		{"Best Time to Visit", IconCalendar, func(d *chat.Details, e chat.Entry) { d.BestTime = e }},
		{"Transportation", IconBus, func(d *chat.Details, e chat.Entry) { d.Transportation = e }},
		{"Travel Tips", IconInfo, func(d *chat.Details, e chat.Entry) { d.Tips = e }},
	}

	for _, tt := range tests {
		for name, empty := range map[string]chat.Entry{"absent": {}, "empty list": chat.ListEntry()} {
			t.Run(tt.title+"/"+name, func(t *testing.T) {
				details := fullDetails()
				tt.clear(&details, empty)

				n := utc.DestinationCard(&chat.Destination{Location: "Goa", Details: details})

				assert.NotContains(t, n.PlainText(), tt.title)
				assert.False(t, hasIcon(n, tt.icon), "icon %s should be absent", tt.icon)
				assert.Len(t, n.Find(KindSection), 4)
			})
		}
	}
}

func TestDestinationCard_SectionOrderAndLists(t *testing.T) {
	n := utc.DestinationCard(&chat.Destination{Location: "Goa", Details: fullDetails(), Response: "Enjoy!"})

	require.Equal(t, KindCard, n.Kind)
	header, ok := n.Child(KindHeader)
	require.True(t, ok)
	assert.Equal(t, "Goa", header.Text)
	assert.Equal(t, IconMapPin, header.Icon)

	assert.Equal(t,
		[]string{"Top Attractions", "Local Cuisine", "Best Time to Visit", "Transportation", "Travel Tips"},
		texts(n.Find(KindHeading)))

	grid, ok := n.Child(KindGrid)
	require.True(t, ok)
	assert.Equal(t, 2, grid.Columns)

	attractions := grid.Children[0].Find(KindItem)
	require.Len(t, attractions, 2)
	assert.Equal(t, []string{"Beach", "Temple"}, texts(attractions))
	assert.Equal(t, "0", attractions[0].Key)
	assert.Equal(t, "1", attractions[1].Key)

	narrative, ok := n.Child(KindNarrative)
	require.True(t, ok)
	assert.Equal(t, "Enjoy!", narrative.Text)
	assert.Equal(t, KindNarrative, n.Children[len(n.Children)-1].Kind)
}

func TestDestinationCard_ContentShapes(t *testing.T) {
	d := &chat.Destination{
		Location: "Lisbon",
		Details: chat.Details{
			Attractions: chat.TextEntry("Belem Tower"),
			BestTime:    chat.ListEntry("Spring", "Autumn"),
		},
	}
	n := utc.DestinationCard(d)

	sections := n.Find(KindSection)
	require.Len(t, sections, 2)
	assert.Empty(t, sections[0].Find(KindList), "list section with text content renders text")
	assert.Equal(t, []string{"Belem Tower"}, texts(sections[0].Find(KindText)))
	assert.Equal(t, []string{"Spring, Autumn"}, texts(sections[1].Find(KindText)))
}

func TestMessageBubble_DestinationWithNoSections(t *testing.T) {
	m := decodeMessage(t, `{"query_type":"destination_info","location":"Paris","details":{},"response":""}`)

	n := utc.MessageBubble(m)
	require.Len(t, n.Children, 1)
	card := n.Children[0]
	assert.Equal(t, KindCard, card.Kind)

	header, _ := card.Child(KindHeader)
	assert.Equal(t, "Paris", header.Text)
	grid, ok := card.Child(KindGrid)
	require.True(t, ok)
	assert.Empty(t, grid.Children)
	_, hasNarrative := card.Child(KindNarrative)
	assert.False(t, hasNarrative)
}

func flight(id, dep, arr string, price float64) chat.Flight {
	return chat.Flight{
		ID:            id,
		Departure:     "DEL",
		Arrival:       "BOM",
		DepartureTime: dep,
		ArrivalTime:   arr,
		Airline:       "Test Airlines",
	}.WithPrice(price)
}

func TestFlightCard_Layout(t *testing.T) {
	f := flight("x", "2024-05-01T10:00:00Z", "2024-05-01T11:30:00Z", 12500)
	n := utc.FlightCard(f, 1)

	badge, ok := n.Child(KindBadge)
	require.True(t, ok)
	assert.Equal(t, "#1", badge.Text)

	row, ok := n.Child(KindRow)
	require.True(t, ok)
	route, _ := row.Child(KindRoute)
	price, _ := row.Child(KindPrice)
	assert.Equal(t, "DEL → BOM", route.Text)
	assert.Equal(t, "$12,500", price.Text)

	fields := n.Find(KindField)
	require.Len(t, fields, 2)
	assert.Equal(t, []string{"Departure", "10:00 AM"}, texts(fields[0].Children))
	assert.Equal(t, []string{"Arrival", "11:30 AM"}, texts(fields[1].Children))

	footer, ok := n.Child(KindFooter)
	require.True(t, ok)
	assert.Equal(t, []string{"Test Airlines", "1h 30m"}, texts(footer.Children))
}

func TestFlightCard_UnparsableDeparture(t *testing.T) {
	f := flight("x", "", "2024-05-01T11:30:00Z", 14500)
	n := utc.FlightCard(f, 3)
	text := n.PlainText()

	assert.Equal(t, TimeUnavailable, n.Find(KindField)[0].Children[1].Text)
	assert.Equal(t, "11:30 AM", n.Find(KindField)[1].Children[1].Text)
	assert.Contains(t, text, DurationUnavailable)
	assert.Contains(t, text, "$14,500")
	assert.Contains(t, text, "Test Airlines")
	assert.Contains(t, text, "#3")
}

func TestFlightCard_MissingPrice(t *testing.T) {
	n := utc.FlightCard(chat.Flight{Airline: "X"}, 1)
	assert.Contains(t, n.PlainText(), PriceUnavailable)
	assert.Contains(t, n.PlainText(), "#1")
}

func TestMessageBubble_FlightsRankedByPosition(t *testing.T) {
	m := decodeMessage(t, `{"type":"bot","flights":[
		{"id":"a","departure":"DEL","arrival":"BOM","price":1},
		{"departure":"DEL","arrival":"BOM","price":2},
		{"id":"c","departure":"DEL","arrival":"BOM","price":3}]}`)

	n := utc.MessageBubble(m)
	assert.Equal(t, AlignLeft, n.Align)
	assert.Equal(t, ToneNeutral, n.Tone)

	require.Len(t, n.Children, 1)
	grid := n.Children[0]
	require.Equal(t, KindGrid, grid.Kind)
	require.Len(t, grid.Children, 3)

	var keys []string
	for _, card := range grid.Children {
		keys = append(keys, card.Key)
	}
	assert.Equal(t, []string{"a", "1", "c"}, keys)
	assert.Equal(t, []string{"#1", "#2", "#3"}, texts(grid.Find(KindBadge)))
	assert.Equal(t, []string{"$1", "$2", "$3"}, texts(grid.Find(KindPrice)))
}

func TestMessageBubble_UserTextKeepsLineBreaks(t *testing.T) {
	m := decodeMessage(t, `{"type":"user","content":"Hello\nWorld"}`)

	n := utc.MessageBubble(m)
	assert.Equal(t, AlignRight, n.Align)
	assert.Equal(t, ToneAccent, n.Tone)
	require.Len(t, n.Children, 1)
	assert.Equal(t, KindPre, n.Children[0].Kind)
	assert.Equal(t, "Hello\nWorld", n.Children[0].Text)
}

func TestMessageBubble_Empty(t *testing.T) {
	n := utc.MessageBubble(decodeMessage(t, `{"type":"bot"}`))
	assert.Equal(t, KindBubble, n.Kind)
	assert.Empty(t, n.Children)
}

func TestFormatClock(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	tests := []struct {
		in   string
		loc  *time.Location
		want string
		ok   bool
	}{
		{"2024-05-01T10:00:00Z", time.UTC, "10:00 AM", true},
		{"2024-05-01T14:05:00Z", time.UTC, "02:05 PM", true},
		{"2024-05-01T00:15:00Z", time.UTC, "12:15 AM", true},
		{"2024-05-01T10:00:00Z", ist, "03:30 PM", true},
		{"2024-05-01T10:00:00", ist, "10:00 AM", true},
		{"2024-05-01T10:00:00.123+05:30", time.UTC, "04:30 AM", true},
		{"2024-05-01", time.UTC, "12:00 AM", true},
		{"", time.UTC, "", false},
		{"tomorrow", time.UTC, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FormatClock(tt.in, tt.loc)
			assert.Equal(t, tt.ok, got.OK)
			assert.Equal(t, tt.want, got.Text)
		})
	}
	assert.Equal(t, TimeUnavailable, FormatClock("", time.UTC).Or(TimeUnavailable))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		dep, arr string
		want     string
	}{
		{"ninety minutes", "2024-05-01T10:00:00Z", "2024-05-01T11:30:00Z", "1h 30m"},
		{"overnight", "2024-05-01T22:10:00Z", "2024-05-02T06:05:00Z", "7h 55m"},
		{"zero", "2024-05-01T10:00:00Z", "2024-05-01T10:00:00Z", "0h 0m"},
		{"partial minute floors", "2024-05-01T10:00:00Z", "2024-05-01T10:01:59Z", "0h 1m"},
		{"negative", "2024-05-01T12:00:00Z", "2024-05-01T11:30:00Z", "-1h -30m"},
		{"mixed zones", "2024-05-01T10:00:00+05:30", "2024-05-01T06:00:00Z", "1h 30m"},
		{"bad departure", "", "2024-05-01T11:30:00Z", DurationUnavailable},
		{"bad arrival", "2024-05-01T10:00:00Z", "soon", DurationUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.dep, tt.arr, time.UTC).Or(DurationUnavailable)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatPrice(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	tests := []struct {
		in   *float64
		want string
	}{
		{p(0), "$0"},
		{p(999), "$999"},
		{p(12500), "$12,500"},
		{p(125000), "$1,25,000"},
		{p(12345678.9), "$1,23,45,678.9"},
		{p(1234.5678), "$1,234.568"},
		{p(14500.00), "$14,500"},
		{p(-1234), "$-1,234"},
		{nil, PriceUnavailable},
	}

	for _, tt := range tests {
		name := "nil"
		if tt.in != nil {
			name = strings.TrimPrefix(tt.want, "$")
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPrice(tt.in).Or(PriceUnavailable))
		})
	}
}

func TestNode_JSON(t *testing.T) {
	n := utc.MessageBubble(chat.NewUserMessage("hi"))
	b, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"kind":"bubble"`)
	assert.Contains(t, string(b), `"align":"right"`)
	assert.Contains(t, string(b), `"kind":"pre"`)
}

func TestDestinationCard_TextSectionJoinsSequence(t *testing.T) {
	n := utc.DestinationCard(&chat.Destination{
		Location: "Goa",
		Details: chat.Details{
			BestTime:       chat.ListEntry("November", "February"),
			Transportation: chat.ListEntry("Scooter"),
		},
	})

	var got []string
	for _, s := range n.Find(KindSection) {
		require.Empty(t, s.Find(KindList), "text sections never become lists")
		for _, txt := range s.Find(KindText) {
			got = append(got, txt.Text)
		}
	}
	assert.Equal(t, []string{"November, February", "Scooter"}, got)
}
