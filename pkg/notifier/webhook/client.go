// Package webhook provides a notifier.Client posting confirmations as JSON to
// an HTTP endpoint.
package webhook

import (
	"bookkeeper/pkg/notifier"
	"bookkeeper/pkg/serrors"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/jx"
)

// Client posts confirmations to a webhook URL. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
	now        func() time.Time
}

// New constructs a Client posting to url. An empty token sends no
// Authorization header.
func New(httpClient *http.Client, url, token string) *Client {
	return &Client{
		httpClient: httpClient,
		url:        url,
		token:      token,
		now:        time.Now,
	}
}

// ParseRateLimit extracts the rate-limit window from the response headers.
// Responses without a reset header yield a zero status.
func ParseRateLimit(h http.Header) (notifier.RateLimitStatus, error) {
	atoi := func(s string) int {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}

		return 0
	}

	resetStr := h.Get("X-Rate-Limit-Reset")
	if resetStr == "" {
		return notifier.RateLimitStatus{}, nil
	}
	resetAt, err := time.Parse(time.RFC3339Nano, resetStr)
	if err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not parse reset at: %w", err)
	}

	return notifier.RateLimitStatus{
		Limit:     atoi(h.Get("X-Rate-Limit-Limit")),
		Remaining: atoi(h.Get("X-Rate-Limit-Remaining")),
		ResetAt:   resetAt,
	}, nil
}

// Send posts the confirmation. The entry id doubles as idempotency key; the
// endpoint answers 409 for a confirmation it already delivered.
func (c *Client) Send(ctx context.Context, confirmation notifier.Confirmation) (notifier.RateLimitStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(encode(confirmation)))
	if err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", confirmation.EntryID)
	if confirmation.RequestID != "" {
		req.Header.Set("X-Request-ID", confirmation.RequestID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return notifier.RateLimitStatus{}, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	rl, err := ParseRateLimit(resp.Header)
	if err != nil {
		return rl, fmt.Errorf("could not parse rate limit: %w", err)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return rl, fmt.Errorf("could not read response body: %w", err)
	}
	msg := strings.TrimSpace(string(b))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if rl.ResetAt.IsZero() {
			rl.ResetAt = c.retryAfter(resp.Header)
		}

		return rl, serrors.With(serrors.ErrRateLimited, "rate limited: %s", msg)
	case resp.StatusCode == http.StatusConflict:
		return rl, serrors.With(serrors.ErrConflict, "already delivered: %s", msg)
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return rl, serrors.With(serrors.ErrBadRequest, "confirmation rejected: %s", msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return rl, serrors.With(serrors.ErrUnauthorized, "webhook refused credentials: %s", msg)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return rl, fmt.Errorf("send failed with status %d: %s", resp.StatusCode, msg)
	}

	return rl, nil
}

// retryAfter reads a Retry-After header given in seconds.
func (c *Client) retryAfter(h http.Header) time.Time {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs < 0 {
		return time.Time{}
	}

	return c.now().Add(time.Duration(secs) * time.Second)
}

func encode(confirmation notifier.Confirmation) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("entryId")
	e.Str(confirmation.EntryID)
	e.FieldStart("userId")
	e.Str(confirmation.UserID)
	if confirmation.RequestID != "" {
		e.FieldStart("requestId")
		e.Str(confirmation.RequestID)
	}
	e.FieldStart("text")
	e.Str(confirmation.Text)
	e.ObjEnd()

	return e.Bytes()
}

// Ensure Client conforms to the notifier.Client interface at compile time.
var _ notifier.Client = (*Client)(nil)
