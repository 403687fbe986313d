// Package search answers chat queries with destination guides from Groq or
// flight offers from Duffel.
package search

import (
	"regexp"
	"strings"
)

// Kind is the route a query takes.
type Kind string

const (
	KindDestination Kind = "destination"
	KindFlights     Kind = "flights"
)

var destinationPattern = regexp.MustCompile(`tell me about|what.*about|info.*about|guide.*to`)

// Classify routes a query. Anything that does not ask about a place is
// treated as a flight search.
func Classify(query string) Kind {
	if destinationPattern.MatchString(strings.ToLower(query)) {
		return KindDestination
	}
	return KindFlights
}

// normalizeQuery folds case and whitespace so equivalent queries share a
// cache entry.
func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
