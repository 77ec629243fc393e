// Package recommender sends one user query to the API recommendation endpoint
// and turns the outcome into the assistant's display text.
//
// Dispatch never returns an error: protocol and transport failures become a
// localized "connection unstable" message and the detail goes to the log.
package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/papercomputeco/apibot/pkg/session"
	"github.com/papercomputeco/apibot/pkg/utils"
)

// DefaultEndpoint is the local recommendation service.
const DefaultEndpoint = "http://127.0.0.1:8000/ai/api_recommender"

const (
	// UnstableMessage is shown when no response arrived at all.
	UnstableMessage = "연결 상태가 좋지 않습니다."

	unstablePrefix       = "연결 상태가 좋지 않습니다("
	unstableStatusFormat = unstablePrefix + "%d)."

	// maxLoggedBody caps how much of an error response lands in the log.
	maxLoggedBody = 512
)

// UnstableStatusMessage is shown for a non-200 response.
func UnstableStatusMessage(status int) string {
	return fmt.Sprintf(unstableStatusFormat, status)
}

// IsUnstable reports whether reply is one of the connection messages
// Dispatch substitutes for a failed request.
func IsUnstable(reply string) bool {
	return reply == UnstableMessage ||
		strings.HasPrefix(reply, unstablePrefix) && strings.HasSuffix(reply, ").")
}

// Dispatcher turns one utterance into assistant text.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string) string
}

// Config configures a Client.
type Config struct {
	// Endpoint is the full URL receiving the POST.
	Endpoint string

	// HTTPClient overrides the transport. nil uses a zero-value http.Client,
	// which has no timeout.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client is the Dispatcher backed by the HTTP endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *slog.Logger
}

type recommendRequest struct {
	Content string `json:"content"`
}

type recommendResponse struct {
	Reply string `json:"reply"`
}

// NewClient builds a Client, filling defaults for unset fields.
func NewClient(c Config) *Client {
	client := &Client{
		endpoint: c.Endpoint,
		http:     c.HTTPClient,
		logger:   c.Logger,
	}
	if client.endpoint == "" {
		client.endpoint = DefaultEndpoint
	}
	if client.http == nil {
		client.http = &http.Client{}
	}
	if client.logger == nil {
		client.logger = slog.New(slog.DiscardHandler)
	}
	return client
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Dispatch posts text to the endpoint and returns the reply, or a localized
// failure message.
func (c *Client) Dispatch(ctx context.Context, text string) string {
	content := strings.TrimSpace(text)
	key := strings.ToLower(content)

	c.logger.Debug("dispatching query",
		"endpoint", c.endpoint,
		"query_key", key,
	)

	reply, status, body, err := c.post(ctx, content)
	switch {
	case err != nil:
		c.logger.Error("recommender request failed",
			"endpoint", c.endpoint,
			"error", err,
		)
		return UnstableMessage

	case status != http.StatusOK:
		c.logger.Error("recommender returned an error status",
			"endpoint", c.endpoint,
			"status", status,
			"body", utils.Truncate(string(body), maxLoggedBody),
		)
		return UnstableStatusMessage(status)
	}

	c.logger.Debug("recommender replied",
		"query_key", key,
		"reply_len", len(reply),
	)
	return reply
}

// post performs the exchange. A non-nil error means no usable response; a
// non-200 status is reported through status and body with a nil error.
func (c *Client) post(ctx context.Context, content string) (string, int, []byte, error) {
	payload, err := json.Marshal(recommendRequest{Content: content})
	if err != nil {
		return "", 0, nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", resp.StatusCode, body, nil
	}

	var decoded recommendResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", 0, nil, fmt.Errorf("decoding response: %w", err)
	}

	return decoded.Reply, resp.StatusCode, body, nil
}

// Exchange runs one submission against sess: the trimmed text is dispatched
// and the user/assistant pair is appended. Blank input is ignored and
// reported with ok=false.
func Exchange(ctx context.Context, d Dispatcher, sess *session.Session, text string) (reply string, ok bool) {
	content := strings.TrimSpace(text)
	if content == "" {
		return "", false
	}

	sess.Lock()
	defer sess.Unlock()

	reply = d.Dispatch(ctx, content)
	sess.AppendExchange(content, reply)
	return reply, true
}
