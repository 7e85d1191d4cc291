package middlewares

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/models"
	"github.com/Kariqs/storefront-api/utils"
)

const SessionCookie = "jwt"

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
	msgOwnerOnly   = "Not authorized, owner only"
)

func tokenFromRequest(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAuth verifies the session token from the jwt cookie or a Bearer
// header and attaches the user to the request.
func RequireAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := tokenFromRequest(ctx)
		if token == "" {
			_ = ctx.Error(utils.AuthError(msgNoToken))
			ctx.Abort()
			return
		}

		claims, err := utils.ParseSessionToken(token, initializers.Config.JWTSecret)
		if err != nil {
			log.Debug().Err(err).Str("request_id", RequestID(ctx)).Msg("session token rejected")
			_ = ctx.Error(utils.AuthError(msgTokenFailed))
			ctx.Abort()
			return
		}

		ctx.Set(userIDKey, claims.UserID)

		var user models.User
		err = initializers.DB.WithContext(ctx.Request.Context()).First(&user, claims.UserID).Error
		switch {
		case err == nil:
			ctx.Set(userKey, &user)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// handlers that need the record report it missing themselves
		default:
			_ = ctx.Error(utils.InternalError("Internal server error", err))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// RequireOwner must run after RequireAuth.
func RequireOwner() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := CurrentUser(ctx)
		if !ok || !user.IsOwner() {
			_ = ctx.Error(utils.AuthError(msgOwnerOnly))
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
