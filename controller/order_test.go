package controller_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ZuLoiZo/ShopSphere/config"
	"github.com/ZuLoiZo/ShopSphere/models"
	"github.com/ZuLoiZo/ShopSphere/routes"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	config.DB = db
	config.RedisClient = nil
	config.JWTSecret = []byte("test-secret")

	router := gin.New()
	routes.CartRoute(router)
	routes.OrderRoute(router)
	return router
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  user.Id,
		"role": string(user.Role),
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(config.JWTSecret)
	require.NoError(t, err)
	return signed
}

func createUser(t *testing.T, email string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{Email: email, Role: role}
	require.NoError(t, config.DB.Create(user).Error)
	return user
}

func TestUpdateOrderStatus_RoleGating(t *testing.T) {
	router := setupRouter(t)

	customer := createUser(t, "customer@example.com", models.RoleCustomer)
	admin := createUser(t, "admin@example.com", models.RoleAdmin)

	order := &models.Order{
		OrderNumber: "test-order-1",
		UserID:      customer.Id,
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("10.00"),
	}
	require.NoError(t, config.DB.Create(order).Error)

	url := "/api/orders/" + strconv.FormatUint(uint64(order.Id), 10) + "/status"
	body := `{"status":"Paid"}`

	// no token
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// customer token is rejected no matter the target status
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, customer))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var unchanged models.Order
	require.NoError(t, config.DB.First(&unchanged, order.Id).Error)
	assert.Equal(t, models.OrderStatusPending, unchanged.Status)

	// admin token works
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, url, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, admin))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var updated models.Order
	require.NoError(t, config.DB.First(&updated, order.Id).Error)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
}

func TestCartEndpoints_RequireAuth(t *testing.T) {
	router := setupRouter(t)
	user := createUser(t, "shopper@example.com", models.RoleCustomer)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, user))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_items":0`)
}
