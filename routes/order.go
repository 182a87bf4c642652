package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/controller"
	"github.com/ZuLoiZo/ShopSphere/middleware"
)

func OrderRoute(router *gin.Engine) {
	orders := router.Group("/api/orders")
	orders.Use(middleware.RequireAuth)
	{
		orders.POST("", controller.CreateOrder)
		orders.GET("", controller.GetMyOrders)
		orders.GET("/:id", controller.GetOrder)
	}

	admin := router.Group("/api/orders")
	admin.Use(middleware.RequireAuth, middleware.RequireAdmin)
	{
		admin.GET("/all", controller.GetAllOrders)
		admin.PUT("/:id/status", controller.UpdateOrderStatus)
	}
}
