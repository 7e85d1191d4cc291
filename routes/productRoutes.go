package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Kariqs/storefront-api/controllers"
	"github.com/Kariqs/storefront-api/middlewares"
)

func ProductRoutes(api *gin.RouterGroup) {
	api.GET("/products", controllers.GetProducts)
	api.GET("/product/:id", controllers.GetProduct)

	owner := api.Group("/product", middlewares.RequireAuth(), middlewares.RequireOwner())
	{
		owner.POST("", controllers.CreateProduct)
		owner.POST("/file-upload", controllers.UploadProductImage)
		owner.PUT("/:id", controllers.UpdateProduct)
		owner.DELETE("/:id", controllers.DeleteProduct)
	}
}
