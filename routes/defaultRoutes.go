package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/metrics"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/metrics", gin.WrapH(metrics.Handler()))
}
