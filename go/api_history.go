package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogueports "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	historyhttpmapper "github.com/Apurer/go-gin-storefront/internal/domains/history/adapters/http/mapper"
	historydomain "github.com/Apurer/go-gin-storefront/internal/domains/history/domain"
	historyports "github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/reveal"
)

// HistoryAPI serves an owner's purchase history joined with catalogue fields.
type HistoryAPI struct {
	service   historyports.Service
	catalogue catalogueports.Service
	windows   *reveal.Registry
}

// NewHistoryAPI creates a HistoryAPI.
func NewHistoryAPI(service historyports.Service, catalogue catalogueports.Service, windows *reveal.Registry) HistoryAPI {
	return HistoryAPI{service: service, catalogue: catalogue, windows: windows}
}

// Get /v1/history
// Lists the owner's purchases, newest first
func (api *HistoryAPI) GetHistory(c *gin.Context) {
	params, ok := bindListParams(c)
	if !ok {
		return
	}
	params.Query = nil
	w := window(api.windows.For(owner(c)), reveal.RouteHistory, params)
	view, err := api.service.Load(c.Request.Context(), owner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, historyhttpmapper.FromView(view, w.Visible, api.resolve))
}

// Post /v1/history/retry
// Goes back to the normal history endpoint and fetches it again
func (api *HistoryAPI) RetryHistory(c *gin.Context) {
	w := api.windows.For(owner(c)).Reset(reveal.RouteHistory)
	view, err := api.service.Retry(c.Request.Context(), owner(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, historyhttpmapper.FromView(view, w.Visible, api.resolve))
}

// resolve joins a purchase with whatever the catalogue has cached; it never fetches.
func (api *HistoryAPI) resolve(productID int64) (historydomain.ProductRef, bool) {
	if api.catalogue == nil {
		return historydomain.ProductRef{}, false
	}
	item, ok := api.catalogue.Lookup(productID)
	if !ok {
		return historydomain.ProductRef{}, false
	}
	return historydomain.ProductRef{Name: item.Name, Category: item.Category, Image: item.CoverImage()}, true
}
