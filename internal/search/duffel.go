package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"travelchat/internal/chat"
	"travelchat/internal/metrics"
	"travelchat/internal/telemetry"
)

const (
	serviceDuffel = "duffel"
	duffelVersion = "v1"
	// maxOffers is how many offers are turned into flights.
	maxOffers = 5
)

// DuffelConfig points a DuffelClient at the Duffel API.
type DuffelConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DuffelClient searches flight offers.
type DuffelClient struct {
	config DuffelConfig
	client *http.Client
	logger *zap.Logger
}

func NewDuffelClient(cfg DuffelConfig, log *zap.Logger) *DuffelClient {
	return &DuffelClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(zap.String("service", serviceDuffel)),
	}
}

type duffelSlice struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type duffelPassenger struct {
	Type string `json:"type"`
}

type offerRequest struct {
	Data struct {
		Slices     []duffelSlice     `json:"slices"`
		Passengers []duffelPassenger `json:"passengers"`
		CabinClass string            `json:"cabin_class"`
	} `json:"data"`
}

type offerRequestResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type duffelPlace struct {
	IATACode string `json:"iata_code"`
}

type duffelSegment struct {
	Origin           duffelPlace `json:"origin"`
	Destination      duffelPlace `json:"destination"`
	DepartingAt      string      `json:"departing_at"`
	ArrivingAt       string      `json:"arriving_at"`
	OperatingCarrier struct {
		Name string `json:"name"`
	} `json:"operating_carrier"`
}

type duffelOffer struct {
	ID          string `json:"id"`
	TotalAmount string `json:"total_amount"`
	Slices      []struct {
		Segments []duffelSegment `json:"segments"`
	} `json:"slices"`
}

type offersResponse struct {
	Data []duffelOffer `json:"data"`
}

// SearchFlights creates an offer request for q and returns up to five
// offers as flights. When Duffel rejects the offer request a fixed pair of
// sample flights is returned so the chat stays usable. Sample and empty
// stand-in results are marked Fallback.
func (c *DuffelClient) SearchFlights(ctx context.Context, q FlightQuery) (FlightResult, error) {
	if c.config.APIKey == "" {
		return FlightResult{}, fmt.Errorf("duffel: %w", ErrMissingAPIKey)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "search.duffel")
	defer span.End()
	span.SetAttributes(
		attribute.String("travelchat.flight.origin", q.Origin),
		attribute.String("travelchat.flight.destination", q.Destination),
		attribute.String("travelchat.flight.date", q.Date),
	)

	var payload offerRequest
	payload.Data.Slices = []duffelSlice{{Origin: q.Origin, Destination: q.Destination, DepartureDate: q.Date}}
	passengers := q.Passengers
	if passengers <= 0 {
		passengers = defaultPassengers
	}
	for range passengers {
		payload.Data.Passengers = append(payload.Data.Passengers, duffelPassenger{Type: "adult"})
	}
	payload.Data.CabinClass = q.CabinClass
	if payload.Data.CabinClass == "" {
		payload.Data.CabinClass = defaultCabinClass
	}

	status, body, err := c.do(ctx, span, http.MethodPost, "/air/offer_requests", payload)
	if err != nil {
		return FlightResult{}, err
	}
	if !isSuccess(status) {
		c.logger.Error("duffel offer request rejected, returning sample flights",
			zap.Int("status", status), zap.ByteString("body", body))
		span.SetAttributes(attribute.Bool("travelchat.flight.sample", true))
		return FlightResult{Flights: sampleFlights(q), Fallback: true}, nil
	}

	var created offerRequestResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return FlightResult{}, fmt.Errorf("decode offer request: %w", err)
	}
	if created.Data.ID == "" {
		c.logger.Warn("offer request response has no id")
		return FlightResult{Flights: []chat.Flight{}, Fallback: true}, nil
	}

	status, body, err = c.do(ctx, span, http.MethodGet, "/air/offers?offer_request_id="+url.QueryEscape(created.Data.ID), nil)
	if err != nil {
		return FlightResult{}, err
	}
	if status != http.StatusOK {
		c.logger.Warn("listing offers failed", zap.Int("status", status), zap.ByteString("body", body))
		return FlightResult{Flights: []chat.Flight{}, Fallback: true}, nil
	}

	var offers offersResponse
	if err := json.Unmarshal(body, &offers); err != nil {
		return FlightResult{}, fmt.Errorf("decode offers: %w", err)
	}
	flights := c.convertOffers(offers.Data)
	span.SetAttributes(attribute.Int("travelchat.flight.count", len(flights)))
	return FlightResult{Flights: flights}, nil
}

// convertOffers maps the first five offers to flights using the first
// segment of the first slice. Incomplete offers are skipped.
func (c *DuffelClient) convertOffers(offers []duffelOffer) []chat.Flight {
	if len(offers) > maxOffers {
		offers = offers[:maxOffers]
	}
	flights := make([]chat.Flight, 0, len(offers))
	for _, o := range offers {
		f, err := offerToFlight(o)
		if err != nil {
			c.logger.Error("skipping offer", zap.String("offer_id", o.ID), zap.Error(err))
			continue
		}
		flights = append(flights, f)
	}
	return flights
}

func offerToFlight(o duffelOffer) (chat.Flight, error) {
	if o.ID == "" {
		return chat.Flight{}, fmt.Errorf("missing id")
	}
	if len(o.Slices) == 0 || len(o.Slices[0].Segments) == 0 {
		return chat.Flight{}, fmt.Errorf("missing segments")
	}
	seg := o.Slices[0].Segments[0]
	var missing []string
	for _, field := range [...]struct{ name, value string }{
		{"origin", seg.Origin.IATACode},
		{"destination", seg.Destination.IATACode},
		{"departing_at", seg.DepartingAt},
		{"arriving_at", seg.ArrivingAt},
		{"operating_carrier", seg.OperatingCarrier.Name},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return chat.Flight{}, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	price, err := strconv.ParseFloat(o.TotalAmount, 64)
	if err != nil {
		return chat.Flight{}, fmt.Errorf("total_amount %q: %w", o.TotalAmount, err)
	}

	return chat.Flight{
		ID:            o.ID,
		Departure:     seg.Origin.IATACode,
		Arrival:       seg.Destination.IATACode,
		DepartureTime: seg.DepartingAt,
		ArrivalTime:   seg.ArrivingAt,
		Airline:       seg.OperatingCarrier.Name,
	}.WithPrice(price), nil
}

// sampleFlights is returned when Duffel refuses the offer request.
func sampleFlights(q FlightQuery) []chat.Flight {
	return []chat.Flight{
		chat.Flight{
			ID:            "mock1",
			Departure:     q.Origin,
			Arrival:       q.Destination,
			DepartureTime: q.Date + "T10:00:00Z",
			ArrivalTime:   q.Date + "T12:00:00Z",
			Airline:       "Test Airlines",
		}.WithPrice(12500),
		chat.Flight{
			ID:            "mock2",
			Departure:     q.Origin,
			Arrival:       q.Destination,
			DepartureTime: q.Date + "T14:00:00Z",
			ArrivalTime:   q.Date + "T16:00:00Z",
			Airline:       "Test Airways",
		}.WithPrice(14500),
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// do sends one Duffel API call and returns the status and body. Transport
// failures are errors; HTTP error statuses are not.
func (c *DuffelClient) do(ctx context.Context, span oteltrace.Span, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal duffel request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.config.BaseURL, "/")+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("create duffel request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Duffel-Version", duffelVersion)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(serviceDuffel, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, nil, fmt.Errorf("duffel %s %s: %w: %w", method, path, ErrUpstream, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(serviceDuffel, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read duffel response: %w", err)
	}
	return resp.StatusCode, body, nil
}
