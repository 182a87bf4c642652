package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/config"
	"github.com/ZuLoiZo/ShopSphere/middleware"
	"github.com/ZuLoiZo/ShopSphere/routes"
)

func main() {
	config.Connection()
	config.InitRedis()
	config.InitJWT()

	router := gin.Default()
	router.Use(middleware.CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.AuthRoute(router)
	routes.ProductRoute(router)
	routes.CartRoute(router)
	routes.OrderRoute(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	router.Run(":" + port)
}
