package storefrontserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	checkouthttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/checkout/adapters/http/mapper"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
)

// CheckoutAPI wires wallet connection and payment to HTTP.
type CheckoutAPI struct {
	service  checkoutports.Service
	sessions checkoutports.Sessions
}

// NewCheckoutAPI creates a CheckoutAPI. sessions may be nil when the wallet
// adapter learns about connections on its own.
func NewCheckoutAPI(service checkoutports.Service, sessions checkoutports.Sessions) CheckoutAPI {
	return CheckoutAPI{service: service, sessions: sessions}
}

// Get /v1/wallet
func (api *CheckoutAPI) GetWallet(c *gin.Context) {
	connected, err := api.service.WalletConnected(c.Request.Context(), owner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, checkouthttpmapper.Wallet{Connected: connected})
}

// Put /v1/wallet
// Records the wallet address the client connected
func (api *CheckoutAPI) RegisterWallet(c *gin.Context) {
	if api.sessions == nil {
		c.Status(http.StatusNotImplemented)
		return
	}
	var payload checkouthttpmapper.RegisterWallet
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := api.sessions.Register(c.Request.Context(), owner(c), payload.Address); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.Wallet{Connected: true})
}

// Delete /v1/wallet
func (api *CheckoutAPI) ForgetWallet(c *gin.Context) {
	if api.sessions == nil {
		c.Status(http.StatusNotImplemented)
		return
	}
	if err := api.sessions.Forget(c.Request.Context(), owner(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.Wallet{Connected: false})
}

// Post /v1/wallet/connect
// Opens the wallet modal and waits for the owner to connect
func (api *CheckoutAPI) ConnectWallet(c *gin.Context) {
	connected, err := api.service.Connect(c.Request.Context(), owner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, checkouthttpmapper.Wallet{Connected: connected})
}

// Post /v1/checkout/cart
// Pays for the whole cart in one transaction and clears it
func (api *CheckoutAPI) CheckoutCart(c *gin.Context) {
	receipt, err := api.service.CheckoutCart(c.Request.Context(), owner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.FromReceipt(receipt))
}

// Post /v1/checkout/items/:itemId
// Pays for one product without touching the cart
func (api *CheckoutAPI) BuyNow(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload checkouthttpmapper.BuyNow
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, err)
		return
	}
	receipt, err := api.service.BuyNow(c.Request.Context(), owner(c), id, payload.Qty)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, checkouthttpmapper.FromReceipt(receipt))
}
