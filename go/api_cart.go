package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
)

// CartAPI wires HTTP transport with the cart bounded context.
type CartAPI struct {
	service cartports.Service
}

// NewCartAPI creates a CartAPI backed by the provided service.
func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Get /v1/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	view, err := api.service.Get(c.Request.Context(), owner(c))
	api.respond(c, view, err)
}

// Post /v1/cart/items
// Adds a product with quantity one, or increments its existing line
func (api *CartAPI) AddCartItem(c *gin.Context) {
	var payload carthttpmapper.AddItem
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.AddItem(c.Request.Context(), owner(c), payload.ID)
	api.respond(c, view, err)
}

// Patch /v1/cart/items/:itemId
// Changes a line quantity by delta of +1 or -1; a line reaching zero is removed
func (api *CartAPI) ChangeCartItemQty(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload carthttpmapper.ChangeQty
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.ChangeQty(c.Request.Context(), owner(c), id, payload.Delta)
	api.respond(c, view, err)
}

// Delete /v1/cart/items/:itemId
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	view, err := api.service.RemoveItem(c.Request.Context(), owner(c), id)
	api.respond(c, view, err)
}

// Delete /v1/cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	view, err := api.service.Clear(c.Request.Context(), owner(c))
	api.respond(c, view, err)
}

func (api *CartAPI) respond(c *gin.Context, view cartports.View, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, carthttpmapper.FromView(view))
}
