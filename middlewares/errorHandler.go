package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kariqs/storefront-api/utils"
)

const msgInternalServerError = "Internal server error"

// ErrorHandler renders the last error recorded on the context as
// {"message", "stack"}; stack is omitted when includeStack is false.
func ErrorHandler(includeStack bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}
		err := ctx.Errors.Last().Err

		status := http.StatusInternalServerError
		message := msgInternalServerError
		if appErr := utils.AsAppError(err); appErr != nil {
			status = appErr.Status()
			message = appErr.Message
		}

		event := log.Warn()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.Err(err).
			Str("request_id", RequestID(ctx)).
			Str("path", ctx.Request.URL.Path).
			Int("status", status).
			Msg("request failed")

		body := gin.H{"message": message}
		if includeStack {
			body["stack"] = errorChain(err)
		}
		ctx.JSON(status, body)
	}
}

func errorChain(err error) []string {
	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	return chain
}

// Recovery turns panics into the same JSON error body.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		log.Error().
			Str("request_id", RequestID(ctx)).
			Interface("panic", recovered).
			Msg("recovered from panic")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternalServerError})
	})
}

func NotFound(ctx *gin.Context) {
	ctx.JSON(http.StatusNotFound, gin.H{"message": "Not Found - " + ctx.Request.URL.Path})
}
