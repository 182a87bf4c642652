package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/ZuLoiZo/ShopSphere/config"
	"github.com/ZuLoiZo/ShopSphere/middleware"
	"github.com/ZuLoiZo/ShopSphere/service"
)

const (
	DefaultListCacheKey = "products:default"
	ProductCacheTTL     = 5 * time.Minute
)

type productInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"image_url"`
	CategoryID  uint            `json:"category_id" binding:"required"`
	IsActive    *bool           `json:"is_active"`
}

// GetProducts godoc
// @Summary List products
// @Description Paginated catalog listing with search, category and price filters. Non-admin callers only see active products.
// @Tags products
// @Produce json
// @Success 200 {object} service.ProductPage
// @Router /products [get]
func GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	filter := service.ProductFilter{Search: c.Query("search")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(service.DefaultProductPageSize)))
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		filter.CategoryID = uint(id)
	}
	if v := c.Query("minPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minimum price"})
			return
		}
		filter.MinPrice = &price
	}
	if v := c.Query("maxPrice"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maximum price"})
			return
		}
		filter.MaxPrice = &price
	}
	if user, ok := middleware.CurrentUser(c); ok && user.IsAdmin() {
		filter.IncludeInactive = c.Query("includeInactive") == "true"
	}

	cacheable := defaultListCacheable(filter)

	if cacheable && config.RedisClient != nil {
		cacheData, err := config.RedisClient.Get(ctx, DefaultListCacheKey).Result()
		if err == nil {
			var page service.ProductPage
			if json.Unmarshal([]byte(cacheData), &page) == nil {
				c.JSON(http.StatusOK, gin.H{"source": "cache", "data": page})
				return
			}
		}
	}

	page, err := service.NewCatalogService(config.DB).ListProducts(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch products"})
		return
	}

	if cacheable && config.RedisClient != nil {
		if pageJSON, err := json.Marshal(page); err == nil {
			go config.RedisClient.Set(context.Background(), DefaultListCacheKey, pageJSON, ProductCacheTTL)
		}
	}

	c.JSON(http.StatusOK, gin.H{"source": "database", "data": page})
}

// GetProductByID godoc
// @Summary Get a single product by its ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} service.ProductView
// @Router /products/{id} [get]
func GetProductByID(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	productCacheKey := "product:" + id

	if config.RedisClient != nil {
		cachedProduct, err := config.RedisClient.Get(ctx, productCacheKey).Result()
		if err == nil {
			var product service.ProductView
			if json.Unmarshal([]byte(cachedProduct), &product) == nil {
				c.JSON(http.StatusOK, gin.H{"source": "cache", "data": product})
				return
			}
		}
	}

	productID, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := service.NewCatalogService(config.DB).GetProduct(ctx, uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch product"})
		return
	}

	if config.RedisClient != nil {
		if productJSON, err := json.Marshal(product); err == nil {
			go config.RedisClient.Set(context.Background(), productCacheKey, productJSON, ProductCacheTTL)
		}
	}

	c.JSON(http.StatusOK, gin.H{"source": "database", "data": product})
}

// GetProductsByCategory godoc
// @Summary List active products of one category
// @Tags products
// @Produce json
// @Param categoryId path int true "Category ID"
// @Success 200 {array} service.ProductView
// @Router /products/category/{categoryId} [get]
func GetProductsByCategory(c *gin.Context) {
	categoryID, err := strconv.ParseUint(c.Param("categoryId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	products, err := service.NewCatalogService(config.DB).ListByCategory(c.Request.Context(), uint(categoryID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct godoc
// @Summary Create a new product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Success 201 {object} service.ProductView
// @Router /products [post]
func CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := service.NewCatalogService(config.DB).CreateProduct(c.Request.Context(), service.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		IsActive:    true,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create product: " + err.Error()})
		return
	}

	invalidateProductCache(0)
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct godoc
// @Summary Update an existing product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} service.ProductView
// @Router /products/{id} [put]
func UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	product, err := service.NewCatalogService(config.DB).UpdateProduct(c.Request.Context(), uint(productID), service.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		IsActive:    active,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, service.ErrInvalidCategory):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update product"})
		}
		return
	}

	invalidateProductCache(uint(productID))
	c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product (admin)
// @Description Products referenced by past orders are deactivated instead of deleted.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 204 "No Content"
// @Router /products/{id} [delete]
func DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	deactivated, err := service.NewCatalogService(config.DB).DeleteProduct(c.Request.Context(), uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	invalidateProductCache(uint(productID))
	if deactivated {
		c.JSON(http.StatusOK, gin.H{"message": "Product has order history and was deactivated instead of deleted"})
		return
	}
	c.Status(http.StatusNoContent)
}

// defaultListCacheable reports whether the request is the plain first page
// that DefaultListCacheKey holds. Anything filtered, paged past 1 or with a
// non-default page size must go to the database: the key stores exactly one
// payload, so serving it for a different page size would return wrong data.
func defaultListCacheable(filter service.ProductFilter) bool {
	return filter.Search == "" && filter.CategoryID == 0 &&
		filter.MinPrice == nil && filter.MaxPrice == nil &&
		!filter.IncludeInactive && filter.Page <= 1 &&
		filter.PageSize == service.DefaultProductPageSize
}

func invalidateProductCache(productID uint) {
	if config.RedisClient == nil {
		return
	}
	go config.RedisClient.Del(context.Background(), DefaultListCacheKey)
	if productID != 0 {
		go config.RedisClient.Del(context.Background(), "product:"+strconv.FormatUint(uint64(productID), 10))
	}
}
