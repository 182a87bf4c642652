package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/controller"
	"github.com/ZuLoiZo/ShopSphere/middleware"
)

// ProductRoute sets up the routes for the catalog.
func ProductRoute(router *gin.Engine) {
	productRoutes := router.Group("/api/products")
	{
		productRoutes.GET("", middleware.OptionalAuth, controller.GetProducts)
		productRoutes.GET("/:id", controller.GetProductByID)
		productRoutes.GET("/category/:categoryId", controller.GetProductsByCategory)
	}

	adminRoutes := router.Group("/api/products")
	adminRoutes.Use(middleware.RequireAuth, middleware.RequireAdmin)
	{
		adminRoutes.POST("", controller.CreateProduct)
		adminRoutes.PUT("/:id", controller.UpdateProduct)
		adminRoutes.DELETE("/:id", controller.DeleteProduct)
	}

	categoryRoutes := router.Group("/api/categories")
	{
		categoryRoutes.GET("", controller.GetCategories)
		categoryRoutes.POST("", middleware.RequireAuth, middleware.RequireAdmin, controller.CreateCategory)
	}
}
