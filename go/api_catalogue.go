package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	cataloguehttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/adapters/http/mapper"
	catalogueports "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"
)

// CatalogueAPI serves the catalogue with owner-scoped reveal windows.
type CatalogueAPI struct {
	service catalogueports.Service
	cart    cartports.Service
	windows *reveal.Registry
}

// NewCatalogueAPI creates a CatalogueAPI. cart marks items already in the owner's cart.
func NewCatalogueAPI(service catalogueports.Service, cart cartports.Service, windows *reveal.Registry) CatalogueAPI {
	return CatalogueAPI{service: service, cart: cart, windows: windows}
}

// listParams are the query parameters shared by the revealable lists.
type listParams struct {
	Query   *string
	Visible *int
	More    *bool
}

func bindListParams(c *gin.Context) (listParams, bool) {
	var params listParams
	query := c.Request.URL.Query()
	for name, dest := range map[string]any{"q": &params.Query, "visible": &params.Visible, "more": &params.More} {
		if err := runtime.BindQueryParameter("form", true, false, name, query, dest); err != nil {
			respondBadRequest(c, err)
			return listParams{}, false
		}
	}
	return params, true
}

// window applies the request to the owner's navigator: a changed query resets
// the window, more reveals another batch, an explicit visible count wins.
func window(nav *reveal.Navigator, route reveal.Route, params listParams) reveal.Window {
	var w reveal.Window
	if params.Query != nil {
		w = nav.Query(route, *params.Query)
	} else {
		w = nav.Enter(route)
	}
	if params.More != nil && *params.More {
		w = nav.More(route)
	}
	if params.Visible != nil {
		w.Visible = *params.Visible
	}
	return w
}

// Get /v1/items
// Lists the filtered catalogue, revealed in batches
func (api *CatalogueAPI) ListItems(c *gin.Context) {
	params, ok := bindListParams(c)
	if !ok {
		return
	}
	q := ""
	if params.Query != nil {
		q = *params.Query
	}
	w := window(api.windows.For(owner(c)), reveal.RouteCatalogue, params)
	api.respondPage(c, q, w.Visible)
}

// Post /v1/items/refetch
// Fetches the catalogue again and resets the reveal window
func (api *CatalogueAPI) RefetchItems(c *gin.Context) {
	if _, err := api.service.Refetch(c.Request.Context()); err != nil {
		respondServiceError(c, err)
		return
	}
	w := api.windows.For(owner(c)).Reset(reveal.RouteCatalogue)
	api.respondPage(c, c.Query("q"), w.Visible)
}

func (api *CatalogueAPI) respondPage(c *gin.Context, q string, visible int) {
	ctx := c.Request.Context()
	page, err := api.service.Page(ctx, q, visible)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	who := owner(c)
	inCart := func(id int64) bool { return api.cart.IsInCart(ctx, who, id) }
	noStore(c)
	c.JSON(http.StatusOK, cataloguehttpmapper.FromPage(page, q, api.service.State(), inCart))
}

// Get /v1/items/:itemId
// Finds a catalogue item by id
func (api *CatalogueAPI) GetItemById(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	item, err := api.service.ItemByID(ctx, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := cataloguehttpmapper.FromDomain(item)
	out.InCart = api.cart.IsInCart(ctx, owner(c), id)
	noStore(c)
	c.JSON(http.StatusOK, out)
}
