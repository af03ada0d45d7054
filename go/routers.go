package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Owned routes require the X-Telegram-User-Id header.
	Owned bool
}

// ApiHandleFunctions groups the handlers of every API area.
type ApiHandleFunctions struct {
	CatalogueAPI   CatalogueAPI
	HistoryAPI     HistoryAPI
	CartAPI        CartAPI
	PreferencesAPI PreferencesAPI
	CheckoutAPI    CheckoutAPI
	ProxyAPI       ProxyAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := []gin.HandlerFunc{route.HandlerFunc}
		if route.Owned {
			handlers = append([]gin.HandlerFunc{RequireOwner()}, handlers...)
		}
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(h ApiHandleFunctions) []Route {
	return []Route{
		{"ListItems", http.MethodGet, "/v1/items", h.CatalogueAPI.ListItems, true},
		{"RefetchItems", http.MethodPost, "/v1/items/refetch", h.CatalogueAPI.RefetchItems, true},
		{"GetItemById", http.MethodGet, "/v1/items/:itemId", h.CatalogueAPI.GetItemById, true},

		{"GetHistory", http.MethodGet, "/v1/history", h.HistoryAPI.GetHistory, true},
		{"RetryHistory", http.MethodPost, "/v1/history/retry", h.HistoryAPI.RetryHistory, true},

		{"GetCart", http.MethodGet, "/v1/cart", h.CartAPI.GetCart, true},
		{"ClearCart", http.MethodDelete, "/v1/cart", h.CartAPI.ClearCart, true},
		{"AddCartItem", http.MethodPost, "/v1/cart/items", h.CartAPI.AddCartItem, true},
		{"ChangeCartItemQty", http.MethodPatch, "/v1/cart/items/:itemId", h.CartAPI.ChangeCartItemQty, true},
		{"RemoveCartItem", http.MethodDelete, "/v1/cart/items/:itemId", h.CartAPI.RemoveCartItem, true},

		{"GetTheme", http.MethodGet, "/v1/preferences/theme", h.PreferencesAPI.GetTheme, true},
		{"SetTheme", http.MethodPut, "/v1/preferences/theme", h.PreferencesAPI.SetTheme, true},

		{"GetWallet", http.MethodGet, "/v1/wallet", h.CheckoutAPI.GetWallet, true},
		{"RegisterWallet", http.MethodPut, "/v1/wallet", h.CheckoutAPI.RegisterWallet, true},
		{"ForgetWallet", http.MethodDelete, "/v1/wallet", h.CheckoutAPI.ForgetWallet, true},
		{"ConnectWallet", http.MethodPost, "/v1/wallet/connect", h.CheckoutAPI.ConnectWallet, true},
		{"CheckoutCart", http.MethodPost, "/v1/checkout/cart", h.CheckoutAPI.CheckoutCart, true},
		{"BuyNow", http.MethodPost, "/v1/checkout/items/:itemId", h.CheckoutAPI.BuyNow, true},

		{"ListWallets", http.MethodGet, "/api/wallets", h.ProxyAPI.ListWallets, false},
		{"GetAvatar", http.MethodGet, "/api/avatar", h.ProxyAPI.GetAvatar, false},
	}
}
