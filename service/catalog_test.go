package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZuLoiZo/ShopSphere/models"
)

func TestListProducts_ActiveOnlyByDefault(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	active := seedProduct(t, db, "Visible", "10.00", 5)
	hidden := seedProduct(t, db, "Hidden", "10.00", 5)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", hidden.Id).Update("is_active", false).Error)

	page, err := svc.ListProducts(context.Background(), ProductFilter{})
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, active.Id, page.Products[0].Id)

	all, err := svc.ListProducts(context.Background(), ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all.Products, 2)
}

func TestListProducts_Filters(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	keyboard := seedProduct(t, db, "Mechanical Keyboard", "120.00", 5)
	seedProduct(t, db, "Mouse", "25.00", 5)

	bySearch, err := svc.ListProducts(context.Background(), ProductFilter{Search: "keyboard"})
	require.NoError(t, err)
	require.Len(t, bySearch.Products, 1)
	assert.Equal(t, keyboard.Id, bySearch.Products[0].Id)

	min := decimal.RequireFromString("100.00")
	byPrice, err := svc.ListProducts(context.Background(), ProductFilter{MinPrice: &min})
	require.NoError(t, err)
	require.Len(t, byPrice.Products, 1)
	assert.Equal(t, keyboard.Id, byPrice.Products[0].Id)

	max := decimal.RequireFromString("50.00")
	cheap, err := svc.ListProducts(context.Background(), ProductFilter{MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, cheap.Products, 1)
	assert.Equal(t, "Mouse", cheap.Products[0].Name)

	byCategory, err := svc.ListProducts(context.Background(), ProductFilter{CategoryID: keyboard.CategoryID})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1)
}

func TestListProducts_PaginationBounds(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	for i := 0; i < 15; i++ {
		seedProduct(t, db, "P", "10.00", 1)
	}

	page, err := svc.ListProducts(context.Background(), ProductFilter{Page: -1, PageSize: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultProductPageSize, page.PageSize)
	assert.Len(t, page.Products, DefaultProductPageSize)
	assert.Equal(t, int64(15), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)

	capped, err := svc.ListProducts(context.Background(), ProductFilter{PageSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, capped.PageSize)
}

func TestCreateProduct_RequiresValidCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)

	_, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:       "Orphan",
		Price:      decimal.RequireFromString("10.00"),
		CategoryID: 999,
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)

	category := seedCategory(t, db, "Audio")
	view, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:       "Headphones",
		Price:      decimal.RequireFromString("59.00"),
		Stock:      3,
		CategoryID: category.Id,
	})
	require.NoError(t, err)
	assert.True(t, view.IsActive)
	assert.Equal(t, "Audio", view.CategoryName)
}

func TestDeleteProduct_SoftDeletesWithOrderHistory(t *testing.T) {
	db := newTestDB(t)
	catalog := NewCatalogService(db)
	orders := NewOrderService(db)
	user := seedUser(t, db, "shopper@example.com")
	product := seedProduct(t, db, "Keyboard", "49.90", 10)
	seedCartWithItem(t, db, user.Id, product.Id, 1)

	_, err := orders.PlaceOrder(context.Background(), user.Id, "1 Main St")
	require.NoError(t, err)

	deactivated, err := catalog.DeleteProduct(context.Background(), product.Id)
	require.NoError(t, err)
	assert.True(t, deactivated)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, product.Id).Error)
	assert.False(t, fresh.IsActive, "referenced products are deactivated, not removed")
}

func TestDeleteProduct_HardDeletesWithoutHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewCatalogService(db)
	product := seedProduct(t, db, "Unsold", "5.00", 1)

	deactivated, err := svc.DeleteProduct(context.Background(), product.Id)
	require.NoError(t, err)
	assert.False(t, deactivated)

	var count int64
	db.Model(&models.Product{}).Where("id = ?", product.Id).Count(&count)
	assert.Zero(t, count)

	_, err = svc.DeleteProduct(context.Background(), product.Id)
	assert.ErrorIs(t, err, ErrNotFound)
}
