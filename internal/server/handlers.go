package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"travelchat/internal/chat"
	"travelchat/internal/render"
	"travelchat/internal/search"
)

const (
	defaultHistoryLimit = 50
	maxBodyBytes        = 1 << 20
)

// Searcher is the backend behind the HTTP API.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (chat.Message, error)
	Recent(ctx context.Context, sessionID string, n int64) ([]chat.Message, error)
	Clear(ctx context.Context, sessionID string) error
}

type Handlers struct {
	searcher Searcher
	renderer render.Renderer
	logger   *zap.Logger
}

func NewHandlers(s Searcher, r render.Renderer, log *zap.Logger) *Handlers {
	return &Handlers{searcher: s, renderer: r, logger: log}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// Search answers POST /search.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	var req search.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("search failed", zap.Error(err), zap.String("request_id", chimiddleware.GetReqID(r.Context())))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Render answers POST /render with the display tree of a message.
func (h *Handlers) Render(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var m chat.Message
	if err := json.Unmarshal(body, &m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid message")
		return
	}
	writeJSON(w, http.StatusOK, h.renderer.MessageBubble(m))
}

// Messages answers GET /sessions/{id}/messages.
func (h *Handlers) Messages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := int64(defaultHistoryLimit)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	msgs, err := h.searcher.Recent(r.Context(), id, limit)
	if err != nil {
		h.logger.Error("read history failed", zap.Error(err), zap.String("session_id", id))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// ClearMessages answers DELETE /sessions/{id}/messages.
func (h *Handlers) ClearMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.searcher.Clear(r.Context(), id); err != nil {
		h.logger.Error("clear history failed", zap.Error(err), zap.String("session_id", id))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
