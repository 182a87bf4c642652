package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/controller"
	"github.com/ZuLoiZo/ShopSphere/middleware"
)

func AuthRoute(router *gin.Engine) {
	auth := router.Group("/api/auth")
	{
		auth.POST("/register", middleware.RateLimiter(), controller.Register)
		auth.POST("/login", middleware.RateLimiter(), controller.Login)
		auth.POST("/forgot-password", middleware.RateLimiter(), controller.ForgotPassword)
		auth.POST("/reset-password", middleware.RateLimiter(), controller.ResetPassword)
		auth.GET("/me", middleware.RequireAuth, controller.Me)
	}
}
