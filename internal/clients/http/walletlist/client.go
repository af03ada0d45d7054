// Package walletlist relays the public TON wallets list, cached for a day.
package walletlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/upstream"
)

const (
	DefaultURL = "https://raw.githubusercontent.com/ton-blockchain/wallets-list/main/wallets-v2.json"
	DefaultTTL = 24 * time.Hour
)

// ErrUpstream marks a wallet list that could not be fetched or was not JSON.
var ErrUpstream = errors.New("wallet list upstream failed")

const cacheKey = "wallets"

// Client fetches the wallet list and serves it from cache until the TTL lapses.
type Client struct {
	url    string
	http   *http.Client
	cache  *expirable.LRU[string, []byte]
	flight singleflight.Group
}

func NewClient(url string, httpClient *http.Client, ttl time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		url:   url,
		http:  httpClient,
		cache: expirable.NewLRU[string, []byte](1, nil, ttl),
	}
}

// Wallets returns the upstream JSON body unchanged.
func (c *Client) Wallets(ctx context.Context) ([]byte, error) {
	if body, ok := c.cache.Get(cacheKey); ok {
		return body, nil
	}
	v, err, _ := c.flight.Do(cacheKey, func() (any, error) {
		body, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(cacheKey, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "build wallet list request")
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, pkgerrors.WithStack(fmt.Errorf("%w: %w", ErrUpstream, err))
	}
	defer resp.Body.Close()
	body, err := upstream.ReadBody(resp.Body, upstream.MaxBodySize)
	if err != nil {
		return nil, pkgerrors.WithStack(fmt.Errorf("%w: %w", ErrUpstream, err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.WithStack(upstream.NewError(resp, body, ErrUpstream))
	}
	if !json.Valid(body) {
		return nil, pkgerrors.WithStack(fmt.Errorf("%w: body is not JSON", ErrUpstream))
	}
	return body, nil
}
