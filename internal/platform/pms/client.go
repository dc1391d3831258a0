// Package pms is the client for the clinical records provider: the external
// practice management API that owns patients, appointments, procedures,
// payments and providers. All dashboard reports are computed from data
// fetched through this client; nothing from the provider is persisted.
package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	// maxAttempts bounds retries on HTTP 429. Any other status fails fast.
	maxAttempts = 5

	// refreshSkew is how long before token expiry a new token is requested.
	refreshSkew = 5 * time.Minute

	defaultTokenTTL = time.Hour
)

// Config carries the provider credentials and scoping identifiers. OfficeID
// and PracticeID are merged into the query string of every outbound request.
type Config struct {
	BaseURL    string
	AppID      string
	AppKey     string
	OfficeID   string
	PracticeID string
}

// UpstreamError is returned for any non-2xx provider response. StatusCode is
// the provider's status so handlers can forward it to the caller.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("provider returned %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("provider returned %d", e.StatusCode)
}

// tokenCache holds the current bearer token and its expiry. It is owned by
// one Client and guarded by a mutex; a concurrent refresh is harmless (the
// provider tolerates repeated auth calls) but the lock keeps reads coherent.
type tokenCache struct {
	mu     sync.Mutex
	value  string
	expiry time.Time
}

// Client is the authenticated HTTP client for the clinical records provider.
// It caches the bearer token until within refreshSkew of expiry and retries
// rate-limited requests with exponential backoff.
type Client struct {
	cfg    Config
	httpc  *http.Client
	tokens *tokenCache
	logger zerolog.Logger

	// Injection points for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		httpc:  &http.Client{Timeout: 30 * time.Second},
		tokens: &tokenCache{},
		logger: logger,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Get issues a GET to path with params merged over the common scope params
// and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, params, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}, params url.Values, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, params, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out interface{}) error {
	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("acquire token: %w", err)
	}

	u, err := c.requestURL(path, params)
	if err != nil {
		return err
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter: 2^n seconds plus up to 1s.
			delay := time.Duration(1<<uint(attempt-1))*time.Second +
				time.Duration(rand.Int63n(int64(time.Second)))
			c.logger.Warn().
				Str("method", method).
				Str("path", path).
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("rate limited by provider, retrying")
			if err := c.sleep(ctx, delay); err != nil {
				return err
			}
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			// Keep the final attempt's error so exhausted retries surface
			// the provider's own response, not a synthesized one.
			lastErr = &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
			continue
		}

		return decodeResponse(resp, out)
	}

	return lastErr
}

func (c *Client) requestURL(path string, params url.Values) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("build request url: %w", err)
	}

	q := u.Query()
	// Common scope params first so explicit params can override them.
	if c.cfg.OfficeID != "" {
		q.Set("office_id", c.cfg.OfficeID)
	}
	if c.cfg.PracticeID != "" {
		q.Set("practice_id", c.cfg.PracticeID)
	}
	for key, values := range params {
		for _, v := range values {
			q.Set(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func decodeResponse(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// token returns the cached bearer token, requesting a new one when the cache
// is empty or within refreshSkew of expiry.
func (c *Client) token(ctx context.Context) (string, error) {
	c.tokens.mu.Lock()
	defer c.tokens.mu.Unlock()

	if c.tokens.value != "" && c.now().Before(c.tokens.expiry.Add(-refreshSkew)) {
		return c.tokens.value, nil
	}

	value, expiry, err := c.requestToken(ctx)
	if err != nil {
		return "", err
	}

	c.tokens.value = value
	c.tokens.expiry = expiry
	c.logger.Debug().Time("expiry", expiry).Msg("provider token refreshed")
	return value, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) requestToken(ctx context.Context) (string, time.Time, error) {
	body, err := json.Marshal(map[string]string{
		"app_id":  c.cfg.AppID,
		"app_key": c.cfg.AppKey,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/auth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}

	var tr tokenResponse
	if err := decodeResponse(resp, &tr); err != nil {
		return "", time.Time{}, err
	}
	if tr.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("auth response contained no access_token")
	}

	return tr.AccessToken, c.tokenExpiry(tr), nil
}

// tokenExpiry prefers the exp claim embedded in the token itself; the
// expires_in field and finally a fixed TTL are fallbacks for providers that
// issue opaque tokens.
func (c *Client) tokenExpiry(tr tokenResponse) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tr.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	if tr.ExpiresIn > 0 {
		return c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return c.now().Add(defaultTokenTTL)
}
