package storefrontserver

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-storefront/internal/clients/http/envelope"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/telegram"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/walletlist"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	catalogueports "github.com/Apurer/go-gin-storefront/internal/domains/catalogue/ports"
	checkoutapp "github.com/Apurer/go-gin-storefront/internal/domains/checkout/application"
	checkoutports "github.com/Apurer/go-gin-storefront/internal/domains/checkout/ports"
	historyapp "github.com/Apurer/go-gin-storefront/internal/domains/history/application"
	historyports "github.com/Apurer/go-gin-storefront/internal/domains/history/ports"
	prefsapp "github.com/Apurer/go-gin-storefront/internal/domains/preferences/application"
	prefsports "github.com/Apurer/go-gin-storefront/internal/domains/preferences/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// responder maps every application error the handlers can see onto a problem.
// Order matters: the first matching mapper wins.
var responder = apierrors.NewChainedResponder("",
	apierrors.Is(apierrors.ErrBadRequest,
		cartapp.ErrInvalidInput,
		checkoutapp.ErrInvalidInput,
		historyapp.ErrInvalidInput,
		prefsapp.ErrInvalidInput,
	),
	apierrors.Is(apierrors.ErrNotFound,
		catalogueports.ErrNotFound,
		cartports.ErrProductNotFound,
		checkoutports.ErrProductNotFound,
		telegram.ErrNotFound,
	),
	apierrors.Is(apierrors.ErrConflict, checkoutports.ErrWalletUnavailable),
	apierrors.Is(apierrors.ErrUnprocessable, checkoutports.ErrTransactionRejected),
	upstreamAPIError,
	apierrors.Is(apierrors.ErrBadGateway,
		envelope.ErrMalformed,
		walletlist.ErrUpstream,
		telegram.ErrUpstream,
	),
	apierrors.Is(apierrors.ErrUnavailable,
		envelope.ErrNetwork,
		cartports.ErrCartUnavailable,
		prefsports.ErrPreferencesUnavailable,
		historyports.ErrHistoryUnavailable,
		telegram.ErrNotConfigured,
	),
)

// upstreamAPIError carries the code an endpoint reported with ok:false.
func upstreamAPIError(err error) (apierrors.ProblemDetail, bool) {
	var apiErr *envelope.APIError
	if !errors.As(err, &apiErr) {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.ErrBadGateway.
		WithDetail(apiErr.Error()).
		WithExtension("upstreamCode", apiErr.Code), true
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func respondBadRequest(c *gin.Context, err error) {
	responder.Respond(c, apierrors.ErrValidation.WithDetail(err.Error()))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		responder.BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
