// Package telegram resolves user avatars, first from the public userpic URL
// and then through the Bot API.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	pkgerrors "github.com/pkg/errors"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/upstream"
)

const (
	DefaultAPIBase     = "https://api.telegram.org"
	DefaultUserpicBase = "https://t.me/i/userpic/320/"
	DefaultTTL         = time.Hour

	cacheSize    = 512
	maxImageSize = 5 << 20
)

var (
	// ErrNotFound is returned when the user has no avatar.
	ErrNotFound = errors.New("avatar not found")
	// ErrNotConfigured is returned when the Bot API fallback is needed without a bot token.
	ErrNotConfigured = errors.New("telegram bot token not configured")
	// ErrUpstream marks a Bot API or file download failure.
	ErrUpstream = errors.New("telegram upstream failed")
)

// Avatar is either a public URL to redirect to, or image bytes to serve.
type Avatar struct {
	RedirectURL string
	ContentType string
	Data        []byte
}

// Client resolves and caches avatars per user.
type Client struct {
	token       string
	apiBase     string
	userpicBase string
	http        *http.Client
	cache       *expirable.LRU[string, Avatar]
}

// Option customises the client.
type Option func(*Client)

func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

func WithUserpicBase(base string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		c.userpicBase = base
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

// NewClient builds an avatar client. An empty token disables the Bot API fallback.
func NewClient(token string, ttl time.Duration, opts ...Option) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Client{
		token:       strings.TrimSpace(token),
		apiBase:     DefaultAPIBase,
		userpicBase: DefaultUserpicBase,
		http:        &http.Client{Timeout: 10 * time.Second},
		cache:       expirable.NewLRU[string, Avatar](cacheSize, nil, ttl),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Avatar resolves the avatar of userID. username may be empty, in which case
// only the Bot API is consulted.
func (c *Client) Avatar(ctx context.Context, userID int64, username string) (Avatar, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	key := strconv.FormatInt(userID, 10) + "/" + username
	if avatar, ok := c.cache.Get(key); ok {
		return avatar, nil
	}
	avatar, err := c.resolve(ctx, userID, username)
	if err != nil {
		return Avatar{}, err
	}
	c.cache.Add(key, avatar)
	return avatar, nil
}

func (c *Client) resolve(ctx context.Context, userID int64, username string) (Avatar, error) {
	if username != "" {
		if target, ok := c.userpic(ctx, username); ok {
			return Avatar{RedirectURL: target}, nil
		}
	}
	if c.token == "" {
		return Avatar{}, ErrNotConfigured
	}
	if userID <= 0 {
		return Avatar{}, ErrNotFound
	}
	fileID, err := c.largestPhoto(ctx, userID)
	if err != nil {
		return Avatar{}, err
	}
	filePath, err := c.filePath(ctx, fileID)
	if err != nil {
		return Avatar{}, err
	}
	return c.download(ctx, filePath)
}

// userpic HEAD-checks the public avatar URL.
func (c *Client) userpic(ctx context.Context, username string) (string, bool) {
	target := c.userpicBase + url.PathEscape(username) + ".jpg"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return "", false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return "", false
	}
	return target, true
}

type botResponse[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	Description string `json:"description"`
}

type photoSize struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type profilePhotos struct {
	TotalCount int           `json:"total_count"`
	Photos     [][]photoSize `json:"photos"`
}

type file struct {
	FilePath string `json:"file_path"`
}

func (c *Client) largestPhoto(ctx context.Context, userID int64) (string, error) {
	params := url.Values{"user_id": {strconv.FormatInt(userID, 10)}, "limit": {"1"}}
	photos, err := call[profilePhotos](ctx, c, "getUserProfilePhotos", params)
	if err != nil {
		return "", err
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", ErrNotFound
	}
	best := photos.Photos[0][0]
	for _, size := range photos.Photos[0][1:] {
		if size.Width*size.Height > best.Width*best.Height {
			best = size
		}
	}
	return best.FileID, nil
}

func (c *Client) filePath(ctx context.Context, fileID string) (string, error) {
	f, err := call[file](ctx, c, "getFile", url.Values{"file_id": {fileID}})
	if err != nil {
		return "", err
	}
	if f.FilePath == "" {
		return "", ErrNotFound
	}
	return f.FilePath, nil
}

func (c *Client) download(ctx context.Context, filePath string) (Avatar, error) {
	target := fmt.Sprintf("%s/file/bot%s/%s", c.apiBase, c.token, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Avatar{}, pkgerrors.Wrap(err, "build avatar download request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Avatar{}, pkgerrors.WithStack(fmt.Errorf("%w: download: %w", ErrUpstream, redact(err, c.token)))
	}
	defer resp.Body.Close()
	data, err := upstream.ReadBody(resp.Body, maxImageSize)
	if err != nil {
		return Avatar{}, pkgerrors.WithStack(fmt.Errorf("%w: download: %w", ErrUpstream, redact(err, c.token)))
	}
	if resp.StatusCode != http.StatusOK {
		return Avatar{}, pkgerrors.WithStack(upstream.NewError(resp, data, fmt.Errorf("%w: download", ErrUpstream)))
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return Avatar{ContentType: contentType, Data: data}, nil
}

func call[T any](ctx context.Context, c *Client, method string, params url.Values) (T, error) {
	var zero T
	target := fmt.Sprintf("%s/bot%s/%s?%s", c.apiBase, c.token, method, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return zero, pkgerrors.Wrapf(err, "build %s request", method)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: %s: %w", ErrUpstream, method, redact(err, c.token)))
	}
	defer resp.Body.Close()
	body, err := upstream.ReadBody(resp.Body, upstream.MaxBodySize)
	if err != nil {
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: %s: %w", ErrUpstream, method, redact(err, c.token)))
	}
	var out botResponse[T]
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return zero, pkgerrors.WithStack(upstream.NewError(resp, body, fmt.Errorf("%w: %s", ErrUpstream, method)))
		}
		return zero, pkgerrors.WithStack(fmt.Errorf("%w: %s: %w", ErrUpstream, method, err))
	}
	if !out.OK {
		return zero, pkgerrors.WithStack(upstream.NewError(resp, body, fmt.Errorf("%w: %s: %s", ErrUpstream, method, out.Description)))
	}
	return out.Result, nil
}

// redact strips the bot token from transport errors, which quote the URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}
