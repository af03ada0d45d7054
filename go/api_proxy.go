package storefrontserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/telegram"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/upstream"
)

// WalletLister returns the raw wallets list JSON.
type WalletLister interface {
	Wallets(ctx context.Context) ([]byte, error)
}

// AvatarResolver resolves a Telegram user's avatar.
type AvatarResolver interface {
	Avatar(ctx context.Context, userID int64, username string) (telegram.Avatar, error)
}

// ProxyAPI relays third-party resources the client cannot fetch itself.
type ProxyAPI struct {
	wallets WalletLister
	avatars AvatarResolver
}

// NewProxyAPI creates a ProxyAPI.
func NewProxyAPI(wallets WalletLister, avatars AvatarResolver) ProxyAPI {
	return ProxyAPI{wallets: wallets, avatars: avatars}
}

// Get /api/wallets
// Relays the wallets list unchanged, cacheable for a day
func (api *ProxyAPI) ListWallets(c *gin.Context) {
	body, err := api.wallets.Wallets(c.Request.Context())
	if err != nil {
		relayUpstreamError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Get /api/avatar
// Redirects to the public userpic or serves the Bot API photo, cacheable for an hour
func (api *ProxyAPI) GetAvatar(c *gin.Context) {
	var id int64
	var username *string
	query := c.Request.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "id", query, &id); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "username", query, &username); err != nil {
		respondBadRequest(c, err)
		return
	}
	name := ""
	if username != nil {
		name = *username
	}
	avatar, err := api.avatars.Avatar(c.Request.Context(), id, name)
	if err != nil {
		relayUpstreamError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	if avatar.RedirectURL != "" {
		c.Redirect(http.StatusFound, avatar.RedirectURL)
		return
	}
	c.Data(http.StatusOK, avatar.ContentType, avatar.Data)
}

// relayUpstreamError forwards an upstream answer as received. Failures that
// never produced one go through the problem mapping.
func relayUpstreamError(c *gin.Context, err error) {
	var failed *upstream.Error
	if !errors.As(err, &failed) {
		respondServiceError(c, err)
		return
	}
	contentType := failed.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(failed.StatusCode, contentType, failed.Body)
}
