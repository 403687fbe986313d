package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"travelchat/internal/chat"
	"travelchat/internal/metrics"
	"travelchat/internal/telemetry"
)

const serviceGroq = "groq"

// GroqConfig points a GroqClient at an OpenAI-compatible endpoint.
type GroqConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GroqClient turns free text into flight queries and destination guides.
type GroqClient struct {
	config GroqConfig
	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewGroqClient(cfg GroqConfig, log *zap.Logger) *GroqClient {
	return &GroqClient{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.With(zap.String("service", serviceGroq)),
		now:    time.Now,
	}
}

const flightPromptTemplate = `Convert the flight query into a JSON object. Extract city pairs and convert to IATA codes.
Common IATA codes:
- New Delhi (DEL)
- Mumbai (BOM)
- Dubai (DXB)
- Ahmedabad (AMD)
- Bangalore (BLR)
- Chennai (MAA)
- Kolkata (CCU)

Convert the following query into this exact JSON format:
{
    "origin": "IATA_CODE",
    "destination": "IATA_CODE",
    "date": "%s",
    "passengers": 2,
    "cabin_class": "economy"
}`

const destinationPrompt = `You are a travel guide. Answer with a single JSON object in this exact format:
{
    "location": "City, Country",
    "details": {
        "attractions": ["..."],
        "cuisine": ["..."],
        "best_time": "...",
        "transportation": "...",
        "tips": ["..."]
    },
    "response": "A short friendly overview."
}`

// FormatFlightQuery extracts origin, destination and date from text. A reply
// without a usable JSON object falls back to keyword matching.
func (c *GroqClient) FormatFlightQuery(ctx context.Context, text string) (FlightQuery, error) {
	date := resolveDate(text, c.now())
	reply, err := c.complete(ctx, "FormatFlightQuery", fmt.Sprintf(flightPromptTemplate, date), text)
	if err != nil {
		return FlightQuery{}, err
	}

	raw, ok := extractJSONObject(reply)
	if !ok {
		c.logger.Warn("no JSON in flight query reply, using fallback", zap.String("reply", reply))
		return fallbackFlightQuery(text, date), nil
	}
	q, err := parseFlightQuery(raw)
	if err != nil {
		c.logger.Warn("invalid flight query reply, using fallback", zap.Error(err))
		return fallbackFlightQuery(text, date), nil
	}
	c.logger.Debug("formatted flight query", zap.Any("query", q))
	return q, nil
}

// DestinationInfo asks for a travel guide to the place named in text. A
// reply without a JSON guide is passed through as the response text and
// marked Fallback.
func (c *GroqClient) DestinationInfo(ctx context.Context, text string) (DestinationReply, error) {
	reply, err := c.complete(ctx, "DestinationInfo", destinationPrompt, text)
	if err != nil {
		return DestinationReply{}, err
	}

	if raw, ok := extractJSONObject(reply); ok {
		if dest := chat.DecodeDestination([]byte(raw)); dest != nil {
			if dest.Location == "" {
				dest.Location = placeFromQuery(text)
			}
			return DestinationReply{Message: chat.NewDestinationReply(*dest)}, nil
		}
	}
	c.logger.Warn("destination reply was not a JSON object")
	return DestinationReply{
		Message: chat.NewDestinationReply(chat.Destination{
			Location: placeFromQuery(text),
			Response: strings.TrimSpace(reply),
		}),
		Fallback: true,
	}, nil
}

var placePattern = regexp.MustCompile(`(?i)\b(?:about|to)\s+(.+?)[\s?.!]*$`)

// placeFromQuery guesses the place a destination query asks about.
func placeFromQuery(text string) string {
	if m := placePattern.FindStringSubmatch(strings.TrimSpace(text)); m != nil {
		return m[1]
	}
	return ""
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message groqMessage `json:"message"`
	} `json:"choices"`
}

// complete runs one chat completion and returns the first choice's text.
func (c *GroqClient) complete(ctx context.Context, op, system, user string) (string, error) {
	if c.config.APIKey == "" {
		return "", fmt.Errorf("groq: %w", ErrMissingAPIKey)
	}

	ctx, span := telemetry.Tracer().Start(ctx, "search.groq")
	defer span.End()
	span.SetAttributes(attribute.String("travelchat.groq.op", op), attribute.String("travelchat.groq.model", c.config.Model))

	body, err := json.Marshal(groqRequest{
		Model: c.config.Model,
		Messages: []groqMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("marshal groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.config.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create groq request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(serviceGroq, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("groq request: %w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(serviceGroq, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read groq response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("groq error", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
		span.SetStatus(codes.Error, resp.Status)
		return "", &UpstreamError{Service: serviceGroq, Status: resp.StatusCode, Body: truncateBody(respBody)}
	}

	var parsed groqResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("groq response has no choices: %w", ErrUpstream)
	}
	content := parsed.Choices[0].Message.Content
	c.logger.Debug("groq reply", zap.String("op", op), zap.String("content", content))
	return content, nil
}
