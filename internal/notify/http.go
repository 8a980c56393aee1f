package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	tokenIssuer        = "tokengate"
	tokenTTL           = time.Minute

	// maxErrorBody bounds how much of a failed response is kept for logging.
	maxErrorBody = 512
)

// HTTPOptions contains optional configuration for HTTPChannel.
type HTTPOptions struct {
	// Secret signs an HS256 bearer token per request when set.
	Secret string

	// Timeout bounds each request. Zero uses the default.
	Timeout time.Duration

	// Client replaces the HTTP client. Used by tests.
	Client *http.Client

	// Now replaces the clock. Used by tests.
	Now func() time.Time
}

// HTTPChannel POSTs JSON envelopes to the authorization service.
type HTTPChannel struct {
	url    string
	secret []byte
	client *http.Client
	now    func() time.Time
}

// NewHTTPChannel creates a channel posting to url.
func NewHTTPChannel(url string, opts *HTTPOptions) (*HTTPChannel, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, gateerr.WithDetails(gateerr.ErrConfigInvalid, map[string]string{"auth.url": "required"})
	}

	c := &HTTPChannel{
		url:    url,
		client: &http.Client{Timeout: defaultHTTPTimeout},
		now:    time.Now,
	}

	if opts != nil {
		if opts.Secret != "" {
			c.secret = []byte(opts.Secret)
		}
		if opts.Timeout > 0 {
			c.client = &http.Client{Timeout: opts.Timeout}
		}
		if opts.Client != nil {
			c.client = opts.Client
		}
		if opts.Now != nil {
			c.now = opts.Now
		}
	}

	return c, nil
}

// URL returns the endpoint messages are posted to.
func (c *HTTPChannel) URL() string {
	return c.url
}

// Send posts one envelope. A transport failure or a non-2xx response is
// ErrSendFailed.
func (c *HTTPChannel) Send(ctx context.Context, msgType string, payload any) error {
	env, err := newEnvelope(msgType, payload, c.now())
	if err != nil {
		return gateerr.WithCause(gateerr.ErrSendFailed, err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		return gateerr.WithCause(gateerr.ErrSendFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return gateerr.WithCause(gateerr.ErrSendFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Message-Type", msgType)

	if len(c.secret) > 0 {
		token, signErr := c.sign(env)
		if signErr != nil {
			return gateerr.WithCause(gateerr.ErrSendFailed, signErr)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return gateerr.WithDetails(gateerr.WithCause(gateerr.ErrSendFailed, err),
			map[string]string{"url": c.url})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return gateerr.WithDetails(gateerr.ErrSendFailed, map[string]string{
			"status": fmt.Sprintf("%d", resp.StatusCode),
			"body":   strings.TrimSpace(string(snippet)),
		})
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// sign issues a short-lived token bound to the envelope id.
func (c *HTTPChannel) sign(env *Envelope) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   env.Type,
		ID:        env.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}
