package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/storefront-api/utils"
)

func newEngine(includeStack bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), Recovery(), ErrorHandler(includeStack))
	r.NoRoute(NotFound)
	return r
}

func perform(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	body := map[string]any{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := newEngine(true)
	r.GET("/missing", func(ctx *gin.Context) {
		_ = ctx.Error(utils.NotFoundError("Product not found"))
		ctx.Abort()
	})

	rec, body := perform(t, r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", body["message"])
	assert.NotEmpty(t, body["stack"])
}

func TestErrorHandlerHidesUnknownErrors(t *testing.T) {
	r := newEngine(false)
	r.GET("/boom", func(ctx *gin.Context) {
		_ = ctx.Error(errors.New("dial tcp: connection refused"))
		ctx.Abort()
	})

	rec, body := perform(t, r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])
	assert.NotContains(t, body, "stack")
}

func TestErrorHandlerKeepsWrittenResponse(t *testing.T) {
	r := newEngine(true)
	r.GET("/written", func(ctx *gin.Context) {
		_ = ctx.Error(errors.New("logged only"))
		ctx.JSON(http.StatusAccepted, gin.H{"message": "ok"})
	})

	rec, body := perform(t, r, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "ok", body["message"])
}

func TestRecoveryAndNotFound(t *testing.T) {
	r := newEngine(false)
	r.GET("/panic", func(ctx *gin.Context) { panic("kaboom") })

	rec, body := perform(t, r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", body["message"])

	rec, body = perform(t, r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found - /nope", body["message"])
}

func TestRequestID(t *testing.T) {
	r := newEngine(false)
	r.GET("/id", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": RequestID(ctx)})
	})

	rec, body := perform(t, r, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := rec.Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, body["message"])

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(requestIDHeader, "edge-123")
	rec, body = perform(t, r, req)
	assert.Equal(t, "edge-123", rec.Header().Get(requestIDHeader))
	assert.Equal(t, "edge-123", body["message"])
}
