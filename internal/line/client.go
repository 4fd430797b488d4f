package line

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the Messaging API endpoint.
const DefaultBaseURL = "https://api.line.me"

// ErrTooManyMessages is returned when a call carries more than
// MaxMessages messages.
var ErrTooManyMessages = errors.New("too many messages")

// APIError is a non-2xx response from the Messaging API.
type APIError struct {
	Status  int
	Message string   `json:"message"`
	Details []Detail `json:"details"`
}

type Detail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("line api: %d %s", e.Status, e.Message)
	}
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = d.Property + ": " + d.Message
	}
	return fmt.Sprintf("line api: %d %s (%s)", e.Status, e.Message, strings.Join(parts, "; "))
}

// Client sends reply and push messages.
type Client struct {
	http *resty.Client
}

// NewClient builds a client authenticated with the channel access token.
// An empty baseURL means DefaultBaseURL. Server errors are retried twice.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{http: c}
}

// Reply answers a webhook event with its reply token.
func (c *Client) Reply(ctx context.Context, replyToken string, msgs ...Message) error {
	return c.send(ctx, "/v2/bot/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages":   msgs,
	}, len(msgs))
}

// Push sends messages to a user outside of a reply.
func (c *Client) Push(ctx context.Context, to string, msgs ...Message) error {
	return c.send(ctx, "/v2/bot/message/push", map[string]any{
		"to":       to,
		"messages": msgs,
	}, len(msgs))
}

func (c *Client) send(ctx context.Context, path string, body map[string]any, n int) error {
	if n == 0 {
		return nil
	}
	if n > MaxMessages {
		return fmt.Errorf("%w: %d > %d", ErrTooManyMessages, n, MaxMessages)
	}

	apiErr := &APIError{}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(apiErr).
		Post(path)
	if err != nil {
		return fmt.Errorf("line %s: %w", path, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode())
		}
		return apiErr
	}
	return nil
}
