package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Reply is the raw result of a gateway call, before normalization: the
// backend answers with either a bare string or a structured object.
type Reply struct {
	Text   string
	Object *ModelReply
}

// ModelGateway is the request/reply boundary to the language-model backend.
// A network or protocol failure surfaces as an error, never as a malformed
// reply. Implementations make a single attempt; retry policy belongs to the
// caller.
type ModelGateway interface {
	SendChatMessage(ctx context.Context, message string) (Reply, error)
}

// HTTPGateway talks to the backend chat endpoint over HTTP.
type HTTPGateway struct {
	endpoint string
	client   *http.Client
}

// NewHTTPGateway creates a gateway for the given endpoint. A zero timeout
// disables the client-side deadline.
func NewHTTPGateway(endpoint string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// SendChatMessage posts the message and decodes the reply.
func (g *HTTPGateway) SendChatMessage(ctx context.Context, message string) (Reply, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return Reply{}, &GatewayError{Endpoint: g.endpoint, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return Reply{}, &GatewayError{Endpoint: g.endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Reply{}, &GatewayError{Endpoint: g.endpoint, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, &GatewayError{Endpoint: g.endpoint, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Reply{}, &GatewayError{Endpoint: g.endpoint, Status: resp.StatusCode, Err: ErrUnavailable}
	}

	return decodeReply(g.endpoint, raw)
}

// decodeReply accepts a JSON string or a reply object.
func decodeReply(endpoint string, raw []byte) (Reply, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return Reply{Text: text}, nil
	}

	var reply ModelReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return Reply{}, &GatewayError{Endpoint: endpoint, Err: fmt.Errorf("%w: %v", ErrBadReply, err)}
	}
	return Reply{Object: &reply}, nil
}
