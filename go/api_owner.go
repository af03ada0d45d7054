package storefrontserver

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// OwnerHeader carries the Telegram user id that scopes carts, history and
// preferences. It is trusted as sent.
const OwnerHeader = "X-Telegram-User-Id"

const ownerKey = "storefront.owner"

// RequireOwner rejects requests without a numeric owner header.
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(OwnerHeader))
		if raw == "" {
			responder.BadRequest(c, "missing "+OwnerHeader+" header")
			return
		}
		if id, err := strconv.ParseInt(raw, 10, 64); err != nil || id <= 0 {
			responder.BadRequest(c, OwnerHeader+" must be a positive integer")
			return
		}
		c.Set(ownerKey, raw)
		c.Next()
	}
}

func owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}
