package service

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ZuLoiZo/ShopSphere/models"
)

type ProductView struct {
	Id           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock"`
	ImageURL     string          `json:"image_url"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
	IsActive     bool            `json:"is_active"`
}

type ProductPage struct {
	Products   []ProductView `json:"products"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// ProductFilter narrows the catalog listing. Zero values mean "no filter".
type ProductFilter struct {
	Search          string
	CategoryID      uint
	MinPrice        *decimal.Decimal
	MaxPrice        *decimal.Decimal
	IncludeInactive bool // admin only
	Page            int
	PageSize        int
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	ImageURL    string
	CategoryID  uint
	IsActive    bool
}

// DefaultProductPageSize is the catalog page size when the caller does not
// ask for one; the product-list cache only holds pages of this size.
const DefaultProductPageSize = 12

type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultProductPageSize
	}
	page, pageSize := normalizePage(filter.Page, filter.PageSize)

	query := s.db.WithContext(ctx).Model(&models.Product{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", like, like)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	err := query.
		Preload("Category").
		Order("name").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	result := &ProductPage{
		Products:   make([]ProductView, 0, len(products)),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
	for i := range products {
		result.Products = append(result.Products, *newProductView(&products[i]))
	}
	return result, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID uint) (*ProductView, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Preload("Category").First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return newProductView(&product), nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, categoryID uint) ([]ProductView, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ? AND is_active = ?", categoryID, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, *newProductView(&products[i]))
	}
	return views, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*ProductView, error) {
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CategoryID:  input.CategoryID,
		IsActive:    true,
	}
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.Id)
}

func (s *CatalogService) UpdateProduct(ctx context.Context, productID uint, input ProductInput) (*ProductView, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Stock = input.Stock
	product.ImageURL = input.ImageURL
	product.CategoryID = input.CategoryID
	product.IsActive = input.IsActive

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, product.Id)
}

// DeleteProduct hard-deletes a product with no order history. A product
// referenced by order lines is deactivated instead, so historical orders
// keep a valid product row. Returns true when it was deactivated.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID uint) (bool, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	var refs int64
	err := s.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("product_id = ?", productID).
		Count(&refs).Error
	if err != nil {
		return false, err
	}

	if refs > 0 {
		err := s.db.WithContext(ctx).
			Model(&product).
			Update("is_active", false).Error
		return true, err
	}

	return false, s.db.WithContext(ctx).Delete(&models.Product{}, productID).Error
}

func (s *CatalogService) checkCategory(ctx context.Context, categoryID uint) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidCategory
	}
	return nil
}

func newProductView(product *models.Product) *ProductView {
	return &ProductView{
		Id:           product.Id,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Stock:        product.Stock,
		ImageURL:     product.ImageURL,
		CategoryID:   product.CategoryID,
		CategoryName: product.Category.Name,
		IsActive:     product.IsActive,
	}
}
