package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/models"
)

const (
	userIDKey    = "userId"
	userKey      = "user"
	requestIDKey = "requestId"
)

// CurrentUserID returns the id carried by the verified session token.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentUser returns the user loaded by RequireAuth. It is absent when the
// token is valid but the user record no longer exists.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func RequestID(ctx *gin.Context) string {
	return ctx.GetString(requestIDKey)
}
