// Package envelope fetches and decodes the {ok,data}/{ok:false,error} JSON
// wrapper used by the storefront's static data endpoints.
package envelope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/upstream"
)

var (
	// ErrNetwork marks a fetch that could not complete.
	ErrNetwork = errors.New("network error")
	// ErrMalformed marks a response that violates the envelope contract.
	ErrMalformed = errors.New("malformed envelope")
)

// APIError is the failure an endpoint reports with ok:false.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.Code)
	}
	return e.Message
}

type wire[T any] struct {
	OK    *bool     `json:"ok"`
	Data  T         `json:"data"`
	Error *APIError `json:"error"`
}

// Decode reads one envelope and returns its data, or the API error it carries.
func Decode[T any](r io.Reader) (T, error) {
	var zero T
	var env wire[T]
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: %w", ErrMalformed, err))
	}
	if env.OK == nil {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: missing ok field", ErrMalformed))
	}
	if !*env.OK {
		if env.Error == nil {
			return zero, pkgerrors.WithStack(fmt.Errorf("%w: ok=false without error", ErrMalformed))
		}
		return zero, env.Error
	}
	return env.Data, nil
}

// Client performs GET requests relative to a base URL.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient validates the base URL and applies a default HTTP client.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("envelope base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "parse envelope base URL")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: base, http: httpClient}, nil
}

// Get fetches path and decodes its envelope into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return do[T](ctx, c, http.MethodGet, path, nil)
}

// Post sends body as JSON to path and decodes the envelope it answers with.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var zero T
	payload, err := json.Marshal(body)
	if err != nil {
		return zero, pkgerrors.Wrapf(err, "encode body for %s", path)
	}
	return do[T](ctx, c, http.MethodPost, path, payload)
}

func do[T any](ctx context.Context, c *Client, method, path string, payload []byte) (T, error) {
	var zero T
	if c == nil || c.http == nil {
		return zero, errors.New("envelope client not configured")
	}
	target := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reqBody)
	if err != nil {
		return zero, pkgerrors.Wrapf(err, "build request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err))
	}
	defer resp.Body.Close()
	body, err := upstream.ReadBody(resp.Body, upstream.MaxBodySize)
	if err != nil {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: read %s: %w", ErrNetwork, path, err))
	}
	data, err := Decode[T](bytes.NewReader(body))
	if err != nil && resp.StatusCode >= http.StatusBadRequest && errors.Is(err, ErrMalformed) {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: %s %s: unexpected status %s", ErrNetwork, method, path, resp.Status))
	}
	return data, err
}
