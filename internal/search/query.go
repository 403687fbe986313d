package search

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// FlightQuery is the structured form of a flight request.
type FlightQuery struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	Passengers  int    `json:"passengers"`
	CabinClass  string `json:"cabin_class"`

	// Guessed is set when the route came from keyword matching rather than
	// the model.
	Guessed bool `json:"-"`
}

const (
	defaultPassengers = 2
	defaultCabinClass = "economy"
	defaultLeadDays   = 7
)

var flightQuerySchema = gojsonschema.NewGoLoader(map[string]any{
	"type":     "object",
	"required": []string{"origin", "destination", "date"},
	"properties": map[string]any{
		"origin":      map[string]any{"type": "string", "pattern": "^[A-Za-z]{3}$"},
		"destination": map[string]any{"type": "string", "pattern": "^[A-Za-z]{3}$"},
		"date":        map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"passengers":  map[string]any{"type": "integer", "minimum": 1, "maximum": 9},
		"cabin_class": map[string]any{
			"type": "string",
			"enum": []string{"economy", "premium_economy", "business", "first"},
		},
	},
})

// parseFlightQuery validates a model reply against the flight query schema
// and fills optional fields with defaults.
func parseFlightQuery(raw string) (FlightQuery, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return FlightQuery{}, fmt.Errorf("decode flight query: %w", err)
	}
	result, err := gojsonschema.Validate(flightQuerySchema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return FlightQuery{}, fmt.Errorf("validate flight query: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return FlightQuery{}, fmt.Errorf("flight query does not match schema: %s", strings.Join(msgs, "; "))
	}

	var q FlightQuery
	if err := json.Unmarshal([]byte(raw), &q); err != nil {
		return FlightQuery{}, fmt.Errorf("decode flight query: %w", err)
	}
	q.Origin = strings.ToUpper(q.Origin)
	q.Destination = strings.ToUpper(q.Destination)
	if q.Passengers == 0 {
		q.Passengers = defaultPassengers
	}
	if q.CabinClass == "" {
		q.CabinClass = defaultCabinClass
	}
	return q, nil
}

// fallbackFlightQuery guesses a route from keywords when the model gives
// nothing usable.
func fallbackFlightQuery(text, date string) FlightQuery {
	lower := strings.ToLower(text)
	q := FlightQuery{
		Origin:      "BOM",
		Destination: "DEL",
		Date:        date,
		Passengers:  defaultPassengers,
		CabinClass:  defaultCabinClass,
		Guessed:     true,
	}
	if strings.Contains(lower, "delhi") {
		q.Origin = "DEL"
	}
	if strings.Contains(lower, "ahmedabad") {
		q.Destination = "AMD"
	}
	return q
}

var datePattern = regexp.MustCompile(`on\s+(\d{1,2}\s+[A-Za-z]+\s+\d{4})`)

// resolveDate returns the travel date named as "on 5 March 2025", or a week
// after now.
func resolveDate(text string, now time.Time) string {
	if m := datePattern.FindStringSubmatch(text); m != nil {
		if d, err := time.Parse("2 January 2006", m[1]); err == nil {
			return d.Format(time.DateOnly)
		}
	}
	return now.AddDate(0, 0, defaultLeadDays).Format(time.DateOnly)
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// extractJSONObject returns the outermost {...} span of a model reply.
func extractJSONObject(reply string) (string, bool) {
	m := jsonObjectPattern.FindString(reply)
	return m, m != ""
}
