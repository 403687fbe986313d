package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"travelchat/internal/chat"
	"travelchat/internal/metrics"
	"travelchat/internal/telemetry"
)

// Request is one chat query. SessionID is optional; without it nothing is
// recorded in history.
type Request struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// LLM turns free text into structured queries and destination guides.
type LLM interface {
	FormatFlightQuery(ctx context.Context, text string) (FlightQuery, error)
	DestinationInfo(ctx context.Context, text string) (DestinationReply, error)
}

// FlightSearcher looks up flight offers.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, q FlightQuery) (FlightResult, error)
}

// DestinationReply is a destination guide message. Fallback marks a reply
// built from unstructured model output.
type DestinationReply struct {
	Message  chat.Message
	Fallback bool
}

// FlightResult holds the flights found for a query. Fallback marks sample
// or empty results returned in place of a real answer.
type FlightResult struct {
	Flights  []chat.Flight
	Fallback bool
}

// History keeps the transcript of a session.
type History interface {
	Append(ctx context.Context, sessionID string, msgs ...chat.Message) error
	Recent(ctx context.Context, sessionID string, n int64) ([]chat.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

// Service answers chat queries.
type Service struct {
	llm     LLM
	flights FlightSearcher
	cache   *Cache
	history History
	logger  *zap.Logger
}

func NewService(llm LLM, flights FlightSearcher, log *zap.Logger) *Service {
	return &Service{llm: llm, flights: flights, logger: log}
}

// WithCache enables the reply cache.
func (s *Service) WithCache(c *Cache) *Service {
	s.cache = c
	return s
}

// WithHistory enables session history.
func (s *Service) WithHistory(h History) *Service {
	s.history = h
	return s
}

// Search classifies the query, answers it and records the exchange in the
// session history.
func (s *Service) Search(ctx context.Context, req Request) (chat.Message, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return chat.Message{}, ErrEmptyQuery
	}
	kind := Classify(query)
	log := s.logger.With(zap.String("kind", string(kind)), zap.String("session_id", req.SessionID))

	ctx, span := telemetry.Tracer().Start(ctx, "search.Search")
	defer span.End()
	span.SetAttributes(attribute.String("travelchat.search.kind", string(kind)))

	metrics.SearchRequests.WithLabelValues(string(kind)).Inc()
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	log.Info("search", zap.String("query", query))
	userMsg := chat.NewUserMessage(query)

	reply, cached := s.cache.Get(ctx, kind, query)
	if cached {
		reply.ID = uuid.NewString()
		reply.CreatedAt = time.Now().UTC()
		span.SetAttributes(attribute.Bool("travelchat.search.cached", true))
		log.Debug("cache hit")
	} else {
		var (
			fallback bool
			err      error
		)
		reply, fallback, err = s.dispatch(ctx, kind, query)
		if err != nil {
			metrics.SearchFailures.WithLabelValues(string(kind)).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Error("search failed", zap.Error(err))
			return chat.Message{}, err
		}
		if fallback {
			span.SetAttributes(attribute.Bool("travelchat.search.fallback", true))
			log.Info("fallback reply, not caching")
		} else {
			s.cache.Set(ctx, kind, query, reply)
		}
	}

	if req.SessionID != "" && s.history != nil {
		if err := s.history.Append(ctx, req.SessionID, userMsg, reply); err != nil {
			log.Warn("history append failed", zap.Error(err))
		}
	}
	return reply, nil
}

// dispatch answers query and reports whether the answer is a fallback that
// must not be cached.
func (s *Service) dispatch(ctx context.Context, kind Kind, query string) (chat.Message, bool, error) {
	if kind == KindDestination {
		d, err := s.llm.DestinationInfo(ctx, query)
		if err != nil {
			return chat.Message{}, false, err
		}
		return d.Message, d.Fallback, nil
	}
	q, err := s.llm.FormatFlightQuery(ctx, query)
	if err != nil {
		return chat.Message{}, false, err
	}
	s.logger.Debug("flight query", zap.Any("query", q))
	res, err := s.flights.SearchFlights(ctx, q)
	if err != nil {
		return chat.Message{}, false, err
	}
	return chat.NewFlightsReply(res.Flights), q.Guessed || res.Fallback, nil
}

// Recent returns up to n messages of a session, oldest first. Without a
// history store it returns nothing.
func (s *Service) Recent(ctx context.Context, sessionID string, n int64) ([]chat.Message, error) {
	if s.history == nil || sessionID == "" {
		return nil, nil
	}
	return s.history.Recent(ctx, sessionID, n)
}

// Clear forgets a session.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if s.history == nil || sessionID == "" {
		return nil
	}
	return s.history.Clear(ctx, sessionID)
}
