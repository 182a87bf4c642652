package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/controller"
	"github.com/ZuLoiZo/ShopSphere/middleware"
)

func CartRoute(router *gin.Engine) {
	cart := router.Group("/api/cart")
	cart.Use(middleware.RequireAuth)
	{
		cart.GET("", controller.GetCart)
		cart.POST("/items", controller.AddToCart)
		cart.PUT("/items/:itemId", controller.UpdateCartItem)
		cart.DELETE("/items/:itemId", controller.RemoveFromCart)
		cart.DELETE("", controller.ClearCart)
	}
}
