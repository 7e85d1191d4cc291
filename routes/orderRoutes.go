package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
)

func OrderRoutes(api *gin.RouterGroup) {
	session := api.Group("", middlewares.RequireAuth())
	{
		session.POST("/order", controllers.CreateOrder)
		session.GET("/orders/current-user", controllers.GetCurrentUserOrders)
		session.GET("/order/:id", controllers.GetOrderByID)
		session.DELETE("/order/:id", controllers.DeleteOrder)
	}

	owner := api.Group("", middlewares.RequireAuth(), middlewares.RequireOwner())
	{
		owner.GET("/orders", controllers.GetAllOrders)
		owner.GET("/orders/undelivered-count", controllers.GetUndeliveredOrders)
		owner.PUT("/order/:id", controllers.UpdateOrder)
	}
}
