package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	prefsdomain "github.com/Apurer/go-gin-storefront/internal/domains/preferences/domain"
	prefsports "github.com/Apurer/go-gin-storefront/internal/domains/preferences/ports"
)

// PreferencesAPI exposes the owner's theme preference.
type PreferencesAPI struct {
	service prefsports.Service
}

// NewPreferencesAPI creates a PreferencesAPI.
func NewPreferencesAPI(service prefsports.Service) PreferencesAPI {
	return PreferencesAPI{service: service}
}

type themePayload struct {
	Mode string `json:"mode" binding:"required"`
}

// Get /v1/preferences/theme
func (api *PreferencesAPI) GetTheme(c *gin.Context) {
	theme, err := api.service.Theme(c.Request.Context(), owner(c))
	api.respond(c, theme, err)
}

// Put /v1/preferences/theme
// Sets the theme to light, dark or system
func (api *PreferencesAPI) SetTheme(c *gin.Context) {
	var payload themePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	theme, err := api.service.SetTheme(c.Request.Context(), owner(c), payload.Mode)
	api.respond(c, theme, err)
}

func (api *PreferencesAPI) respond(c *gin.Context, theme prefsdomain.Theme, err error) {
	if err != nil {
		respondServiceError(c, err)
		return
	}
	noStore(c)
	c.JSON(http.StatusOK, theme)
}
