package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  Kind
	}{
		{"Tell me about Paris", KindDestination},
		{"what do you know about Goa?", KindDestination},
		{"Any info about Jaipur", KindDestination},
		{"a guide to Tokyo", KindDestination},
		{"flights from Delhi to Ahmedabad", KindFlights},
		{"Mumbai to Dubai on 5 March 2025", KindFlights},
		{"", KindFlights},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.query), "query %q", tt.query)
	}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "tell me about paris", normalizeQuery("  Tell   me about\tPARIS "))
}

func TestResolveDate(t *testing.T) {
	now := time.Date(2025, 1, 10, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		text string
		want string
	}{
		{"Delhi to Mumbai on 5 March 2025", "2025-03-05"},
		{"Delhi to Mumbai on 15 august 2025", "2025-08-15"},
		{"Delhi to Mumbai on 31 Foo 2025", "2025-01-17"},
		{"Delhi to Mumbai tomorrow", "2025-01-17"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveDate(tt.text, now), tt.text)
	}
}

func TestExtractJSONObject(t *testing.T) {
	raw, ok := extractJSONObject("Sure! Here it is:\n{\"a\": {\"b\": 1}}\nEnjoy.")
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, raw)

	_, ok = extractJSONObject("no json here")
	assert.False(t, ok)
}

func TestParseFlightQuery(t *testing.T) {
	q, err := parseFlightQuery(`{"origin":"del","destination":"BOM","date":"2025-03-05"}`)
	require.NoError(t, err)
	assert.Equal(t, FlightQuery{
		Origin:      "DEL",
		Destination: "BOM",
		Date:        "2025-03-05",
		Passengers:  2,
		CabinClass:  "economy",
	}, q)

	q, err = parseFlightQuery(`{"origin":"DEL","destination":"DXB","date":"2025-03-05","passengers":1,"cabin_class":"business"}`)
	require.NoError(t, err)
	assert.Equal(t, 1, q.Passengers)
	assert.Equal(t, "business", q.CabinClass)

	invalid := []string{
		`{"origin":"New Delhi","destination":"BOM","date":"2025-03-05"}`,
		`{"origin":"DEL","destination":"BOM"}`,
		`{"origin":"DEL","destination":"BOM","date":"5 March"}`,
		`{"origin":"DEL","destination":"BOM","date":"2025-03-05","passengers":0}`,
		`{"origin":"DEL","destination":"BOM","date":"2025-03-05","cabin_class":"luxury"}`,
		`["DEL","BOM"]`,
		`{not json}`,
	}
	for _, raw := range invalid {
		_, err := parseFlightQuery(raw)
		assert.Error(t, err, raw)
	}
}

func TestFallbackFlightQuery(t *testing.T) {
	tests := []struct {
		text        string
		origin      string
		destination string
	}{
		{"fly from Delhi to Ahmedabad", "DEL", "AMD"},
		{"fly from Delhi", "DEL", "DEL"},
		{"Mumbai to Ahmedabad", "BOM", "AMD"},
		{"somewhere warm", "BOM", "DEL"},
	}
	for _, tt := range tests {
		q := fallbackFlightQuery(tt.text, "2025-01-17")
		assert.Equal(t, tt.origin, q.Origin, tt.text)
		assert.Equal(t, tt.destination, q.Destination, tt.text)
		assert.Equal(t, "2025-01-17", q.Date)
		assert.Equal(t, 2, q.Passengers)
		assert.Equal(t, "economy", q.CabinClass)
		assert.True(t, q.Guessed, tt.text)
	}
}
