package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
)

func CartRoutes(api *gin.RouterGroup) {
	cart := api.Group("/cart", middlewares.RequireAuth())
	{
		cart.POST("", controllers.AddToCart)
		cart.GET("", controllers.GetCart)
		cart.PUT("", controllers.UpdateCartItem)
		cart.DELETE("", controllers.ClearCart)

		cart.GET("/item/:itemId", controllers.GetCartItemByID)
		cart.PUT("/item/:itemId", controllers.UpdateCartItemByID)
		cart.DELETE("/item/:itemId", controllers.DeleteCartItemByID)

		cart.GET("/:productId", controllers.GetCartItem)
		cart.PUT("/:productId", controllers.UpdateCartItem)
		cart.DELETE("/:productId", controllers.RemoveFromCart)
	}
}
