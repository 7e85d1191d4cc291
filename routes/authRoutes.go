package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
)

func AuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.GET("/current-user", middlewares.RequireAuth(), controllers.GetCurrentUser)
		auth.GET("/logout", middlewares.RequireAuth(), controllers.Logout)
		auth.PUT("/update", middlewares.RequireAuth(), controllers.UpdateProfile)
	}
}
