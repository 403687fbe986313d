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

	"travelchat/internal/chat"
)

const serviceRemote = "travelchat"

// RemoteClient talks to a travelchat server over HTTP. It offers the same
// Search, Recent and Clear operations as Service.
type RemoteClient struct {
	baseURL string
	client  *http.Client
}

func NewRemoteClient(baseURL string, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *RemoteClient) Search(ctx context.Context, req Request) (chat.Message, error) {
	var m chat.Message
	if err := c.do(ctx, http.MethodPost, "/search", req, &m); err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

// Recent returns up to n messages of a session, oldest first. n <= 0
// returns the whole session, as Service.Recent does.
func (c *RemoteClient) Recent(ctx context.Context, sessionID string, n int64) ([]chat.Message, error) {
	n = max(n, 0)
	path := "/sessions/" + url.PathEscape(sessionID) + "/messages?limit=" + strconv.FormatInt(n, 10)
	var msgs []chat.Message
	if err := c.do(ctx, http.MethodGet, path, nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *RemoteClient) Clear(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(sessionID)+"/messages", nil, nil)
}

func (c *RemoteClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w: %w", method, path, ErrUpstream, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &UpstreamError{Service: serviceRemote, Status: resp.StatusCode, Body: errorDetail(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorDetail pulls the "detail" field out of an error body, falling back to
// the raw body.
func errorDetail(data []byte) string {
	var e struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &e) == nil && e.Detail != "" {
		return e.Detail
	}
	return truncateBody(data)
}
