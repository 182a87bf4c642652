package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ZuLoiZo/ShopSphere/config"
	"github.com/ZuLoiZo/ShopSphere/models"
)

func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.WithContext(c.Request.Context()).Order("name").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: input.Name, Description: input.Description}
	if err := config.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}
