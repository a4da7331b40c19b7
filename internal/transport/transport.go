// Package transport is the client side of the assistant backend's chat
// API. The adapter is deliberately thin: one endpoint, no retries, no
// client-side timeout. Failures surface once and the caller decides
// what the conversation shows.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/finderbot/chatcore/internal/conversation"
)

// Reply is the backend's successful chat response.
type Reply struct {
	Response    string                 `json:"response"`
	Products    []conversation.Product `json:"products"`
	SourceCount int                    `json:"source_count"`
}

// chatRequest is the wire shape of one chat call. ConversationHistory
// carries (userText, assistantFullText) pairs in exchange order.
type chatRequest struct {
	Message             string      `json:"message"`
	ConversationHistory [][2]string `json:"conversation_history"`
}

// StatusError captures non-2xx backend responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("transport: unexpected status %d: %s", e.Code, e.Body)
}

func (e *StatusError) HTTPStatusCode() int {
	return e.Code
}

// HTTPClient talks to the assistant backend over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a client for the backend at baseURL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// Send posts one user message plus the paired history and returns the
// backend's reply. Any non-2xx status is a *StatusError.
func (c *HTTPClient) Send(ctx context.Context, message string, history [][2]string) (*Reply, error) {
	if history == nil {
		history = [][2]string{}
	}
	body, err := json.Marshal(chatRequest{Message: message, ConversationHistory: history})
	if err != nil {
		return nil, fmt.Errorf("transport: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var reply Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("transport: decode response: %w", err)
	}
	return &reply, nil
}
