package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"travelchat/internal/chat"
)

type fakeLLM struct {
	query        FlightQuery
	queryErr     error
	destination  chat.Message
	destFallback bool
	destErr      error
	flightCalls  int
	destinations int
}

func (f *fakeLLM) FormatFlightQuery(_ context.Context, _ string) (FlightQuery, error) {
	f.flightCalls++
	return f.query, f.queryErr
}

func (f *fakeLLM) DestinationInfo(_ context.Context, _ string) (DestinationReply, error) {
	f.destinations++
	return DestinationReply{Message: f.destination, Fallback: f.destFallback}, f.destErr
}

type fakeFlights struct {
	flights []chat.Flight
	err     error
	got     FlightQuery
	calls   int
}

func (f *fakeFlights) SearchFlights(_ context.Context, q FlightQuery) (FlightResult, error) {
	f.calls++
	f.got = q
	return FlightResult{Flights: f.flights}, f.err
}

type memHistory struct {
	mu       sync.Mutex
	sessions map[string][]chat.Message
	err      error
}

func (h *memHistory) Append(_ context.Context, id string, msgs ...chat.Message) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	if h.sessions == nil {
		h.sessions = map[string][]chat.Message{}
	}
	h.sessions[id] = append(h.sessions[id], msgs...)
	return nil
}

func (h *memHistory) Recent(_ context.Context, id string, n int64) ([]chat.Message, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := h.sessions[id]
	if n > 0 && int64(len(msgs)) > n {
		msgs = msgs[int64(len(msgs))-n:]
	}
	return msgs, nil
}

func (h *memHistory) Clear(_ context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
	return nil
}

func TestService_FlightSearch(t *testing.T) {
	llm := &fakeLLM{query: testQuery}
	flights := &fakeFlights{flights: []chat.Flight{{ID: "f1", Airline: "IndiGo"}}}
	svc := NewService(llm, flights, zaptest.NewLogger(t))

	m, err := svc.Search(context.Background(), Request{Query: " Delhi to Ahmedabad "})
	require.NoError(t, err)

	assert.Equal(t, testQuery, flights.got)
	assert.Equal(t, chat.TypeBot, m.Type)
	assert.Equal(t, chat.QueryFlightSearch, m.QueryType)
	assert.Equal(t, chat.FlightsContent{Flights: flights.flights}, m.Classify())
	assert.Zero(t, llm.destinations)
}

func TestService_NoFlightsStillAFlightsReply(t *testing.T) {
	svc := NewService(&fakeLLM{query: testQuery}, &fakeFlights{}, zaptest.NewLogger(t))

	m, err := svc.Search(context.Background(), Request{Query: "Delhi to Ahmedabad"})
	require.NoError(t, err)
	assert.NotNil(t, m.Flights)
	assert.IsType(t, chat.FlightsContent{}, m.Classify())
}

func TestService_DestinationSearch(t *testing.T) {
	llm := &fakeLLM{destination: chat.NewDestinationReply(chat.Destination{Location: "Paris"})}
	flights := &fakeFlights{}
	svc := NewService(llm, flights, zaptest.NewLogger(t))

	m, err := svc.Search(context.Background(), Request{Query: "Tell me about Paris"})
	require.NoError(t, err)
	assert.Equal(t, "Paris", m.Location)
	assert.Equal(t, 1, llm.destinations)
	assert.Zero(t, flights.calls)
	assert.Zero(t, llm.flightCalls)
}

func TestService_EmptyQuery(t *testing.T) {
	svc := NewService(&fakeLLM{}, &fakeFlights{}, zaptest.NewLogger(t))
	_, err := svc.Search(context.Background(), Request{Query: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestService_PropagatesErrors(t *testing.T) {
	upstream := &UpstreamError{Service: "groq", Status: 500}
	svc := NewService(&fakeLLM{queryErr: upstream}, &fakeFlights{}, zaptest.NewLogger(t))
	_, err := svc.Search(context.Background(), Request{Query: "Delhi to Mumbai"})
	assert.ErrorIs(t, err, ErrUpstream)

	boom := errors.New("boom")
	svc = NewService(&fakeLLM{query: testQuery}, &fakeFlights{err: boom}, zaptest.NewLogger(t))
	_, err = svc.Search(context.Background(), Request{Query: "Delhi to Mumbai"})
	assert.ErrorIs(t, err, boom)
}

func TestService_History(t *testing.T) {
	hist := &memHistory{}
	svc := NewService(&fakeLLM{query: testQuery}, &fakeFlights{}, zaptest.NewLogger(t)).WithHistory(hist)
	ctx := context.Background()

	_, err := svc.Search(ctx, Request{Query: "no session"})
	require.NoError(t, err)
	assert.Empty(t, hist.sessions)

	reply, err := svc.Search(ctx, Request{Query: "Delhi to Mumbai", SessionID: "s1"})
	require.NoError(t, err)

	msgs, err := svc.Recent(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[0].IsUser())
	assert.Equal(t, "Delhi to Mumbai", msgs[0].Text)
	assert.Equal(t, reply.ID, msgs[1].ID)

	require.NoError(t, svc.Clear(ctx, "s1"))
	msgs, err = svc.Recent(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestService_HistoryFailureDoesNotFailSearch(t *testing.T) {
	hist := &memHistory{err: errors.New("redis down")}
	svc := NewService(&fakeLLM{query: testQuery}, &fakeFlights{}, zaptest.NewLogger(t)).WithHistory(hist)

	_, err := svc.Search(context.Background(), Request{Query: "Delhi to Mumbai", SessionID: "s1"})
	assert.NoError(t, err)
}

func TestService_WithoutHistory(t *testing.T) {
	svc := NewService(&fakeLLM{}, &fakeFlights{}, zaptest.NewLogger(t))
	msgs, err := svc.Recent(context.Background(), "s1", 10)
	assert.NoError(t, err)
	assert.Nil(t, msgs)
	assert.NoError(t, svc.Clear(context.Background(), "s1"))
}

func TestService_Cache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	llm := &fakeLLM{query: testQuery}
	flights := &fakeFlights{flights: []chat.Flight{chat.Flight{ID: "f1"}.WithPrice(4500)}}
	log := zaptest.NewLogger(t)
	svc := NewService(llm, flights, log).WithCache(NewCache(client, time.Minute, log))
	ctx := context.Background()

	first, err := svc.Search(ctx, Request{Query: "Delhi to Ahmedabad"})
	require.NoError(t, err)
	second, err := svc.Search(ctx, Request{Query: "  delhi TO ahmedabad"})
	require.NoError(t, err)

	assert.Equal(t, 1, flights.calls, "second query served from cache")
	assert.NotEqual(t, first.ID, second.ID)
	require.Len(t, second.Flights, 1)
	assert.Equal(t, "f1", second.Flights[0].ID)
	assert.Equal(t, 4500.0, *second.Flights[0].Price)

	key := cacheKey(KindFlights, "Delhi to Ahmedabad")
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, err = svc.Search(ctx, Request{Query: "Delhi to Ahmedabad"})
	require.NoError(t, err)
	assert.Equal(t, 2, flights.calls, "expired entry is refetched")
}

func newCachedService(t *testing.T, llm LLM, flights FlightSearcher) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	log := zaptest.NewLogger(t)
	return NewService(llm, flights, log).WithCache(NewCache(client, time.Minute, log))
}

func TestService_SampleFlightsAreNotCached(t *testing.T) {
	var offerRequests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/air/offer_requests":
			if offerRequests.Add(1) == 1 {
				w.WriteHeader(http.StatusUnprocessableEntity)
				_, _ = w.Write([]byte(`{"errors":[{"message":"unavailable"}]}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"data":{"id":"orq_1"}}`))
		case "/air/offers":
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{offer("off_real", "4200")}})
		}
	}))
	t.Cleanup(srv.Close)

	svc := newCachedService(t, &fakeLLM{query: testQuery}, newTestDuffel(t, srv.URL))
	ctx := context.Background()

	first, err := svc.Search(ctx, Request{Query: "Delhi to Ahmedabad"})
	require.NoError(t, err)
	require.NotEmpty(t, first.Flights)
	assert.Equal(t, "mock1", first.Flights[0].ID)

	second, err := svc.Search(ctx, Request{Query: "Delhi to Ahmedabad"})
	require.NoError(t, err)
	require.Len(t, second.Flights, 1)
	assert.Equal(t, "off_real", second.Flights[0].ID)
	assert.Equal(t, int32(2), offerRequests.Load())

	third, err := svc.Search(ctx, Request{Query: "Delhi to Ahmedabad"})
	require.NoError(t, err)
	assert.Equal(t, "off_real", third.Flights[0].ID)
	assert.Equal(t, int32(2), offerRequests.Load(), "real offers are cached")
}

func TestService_GuessedRouteIsNotCached(t *testing.T) {
	guessed := testQuery
	guessed.Guessed = true
	flights := &fakeFlights{flights: []chat.Flight{{ID: "f1"}}}
	svc := newCachedService(t, &fakeLLM{query: guessed}, flights)

	for range 2 {
		_, err := svc.Search(context.Background(), Request{Query: "Delhi to Ahmedabad"})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, flights.calls)
}

func TestService_PlainDestinationReplyIsNotCached(t *testing.T) {
	llm := &fakeLLM{
		destination:  chat.NewDestinationReply(chat.Destination{Location: "Goa", Response: "Beaches."}),
		destFallback: true,
	}
	svc := newCachedService(t, llm, &fakeFlights{})

	for range 2 {
		m, err := svc.Search(context.Background(), Request{Query: "Tell me about Goa"})
		require.NoError(t, err)
		assert.Equal(t, "Beaches.", m.Response)
	}
	assert.Equal(t, 2, llm.destinations)
}

func TestCache_UnavailableRedisIsAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute, zaptest.NewLogger(t))
	mr.Close()

	_, ok := cache.Get(context.Background(), KindFlights, "x")
	assert.False(t, ok)
	cache.Set(context.Background(), KindFlights, "x", chat.NewTextReply("hi"))

	var disabled *Cache
	_, ok = disabled.Get(context.Background(), KindFlights, "x")
	assert.False(t, ok)
	disabled.Set(context.Background(), KindFlights, "x", chat.NewTextReply("hi"))
}
