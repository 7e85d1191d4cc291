package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/utils"
)

const (
	msgInternalServerError = "Internal server error"
	msgInvalidID           = "Invalid id"
	msgNotAuthorized       = "Not authorized, no token"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

// respondWithError hands err to the error middleware and stops the chain.
func respondWithError(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func db(ctx *gin.Context) *gorm.DB {
	return initializers.DB.WithContext(ctx.Request.Context())
}

func parseIDParam(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, utils.ValidationError(msgInvalidID)
	}
	return uint(id), nil
}

func requireUserID(ctx *gin.Context) (uint, error) {
	id, ok := middlewares.CurrentUserID(ctx)
	if !ok {
		return 0, utils.AuthError(msgNotAuthorized)
	}
	return id, nil
}

func callerIsOwner(ctx *gin.Context) bool {
	user, ok := middlewares.CurrentUser(ctx)
	return ok && user.IsOwner()
}

// productSummary loads only the columns of models.ProductSummary.
func productSummary(tx *gorm.DB) *gorm.DB {
	return tx.Select("id", "name", "price", "images")
}
