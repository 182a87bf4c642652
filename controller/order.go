package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/config"
	"github.com/ZuLoiZo/ShopSphere/middleware"
	"github.com/ZuLoiZo/ShopSphere/service"
	"github.com/ZuLoiZo/ShopSphere/utils"
)

type createOrderInput struct {
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

type updateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateOrder turns the caller's cart into an order.
func CreateOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := service.NewOrderService(config.DB).PlaceOrder(c.Request.Context(), user.Id, input.ShippingAddress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	go utils.SendOrderConfirmationEmail(user.Email, order.OrderNumber, order.TotalAmount.StringFixed(2))

	c.JSON(http.StatusCreated, order)
}

func GetOrder(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := service.NewOrderService(config.DB).GetOrder(c.Request.Context(), user.Id, uint(orderID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	orders, err := service.NewOrderService(config.DB).ListUserOrders(c.Request.Context(), user.Id, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetAllOrders is the admin listing with an optional status filter.
func GetAllOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	status := c.Query("status")

	orders, err := service.NewOrderService(config.DB).ListAllOrders(c.Request.Context(), status, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus is admin-only; admin gating happens in the route group.
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input updateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := service.NewOrderService(config.DB).UpdateStatus(c.Request.Context(), uint(orderID), input.Status); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
