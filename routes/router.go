package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/initializers"
	"github.com/Kariqs/storefront-api/middlewares"
	"github.com/Kariqs/storefront-api/utils"
)

const APIPrefix = "/api/v1"

// SetupRouter builds the engine with the middleware chain and every route.
// initializers.Config must be loaded first.
func SetupRouter() *gin.Engine {
	utils.RegisterValidators()

	server := gin.New()
	server.Use(
		middlewares.RequestIDMiddleware(),
		middlewares.Recovery(),
		middlewares.RequestLogger(),
		middlewares.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     initializers.Config.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-Id"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middlewares.ErrorHandler(!initializers.Config.IsProduction()),
	)
	server.NoRoute(middlewares.NotFound)

	DefaultRoutes(server)

	api := server.Group(APIPrefix)
	AuthRoutes(api)
	ProductRoutes(api)
	CartRoutes(api)
	OrderRoutes(api)

	return server
}
