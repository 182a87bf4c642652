package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ZuLoiZo/ShopSphere/models"
)

type CartItemView struct {
	Id              uint            `json:"id"`
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductImageURL string          `json:"product_image_url"`
	ProductPrice    decimal.Decimal `json:"product_price"`
	Quantity        int             `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// CartView is recomputed from current product prices on every read; no
// total is ever persisted.
type CartView struct {
	Id          uint            `json:"id"`
	UserID      uint            `json:"user_id"`
	Items       []CartItemView  `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*CartView, error) {
	cart, err := s.getOrCreateCart(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart.Id)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	if product.Stock < quantity {
		return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
	}

	cart, err := s.getOrCreateCart(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.Id, productID).
		First(&item).Error
	switch {
	case err == nil:
		// merge into the existing line, re-checking the combined quantity
		merged := item.Quantity + quantity
		if product.Stock < merged {
			return nil, &InsufficientStockError{ProductName: product.Name, Available: product.Stock}
		}
		if err := s.db.WithContext(ctx).Model(&item).Update("quantity", merged).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{CartID: cart.Id, ProductID: productID, Quantity: quantity}
		if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.touchCart(ctx, cart.Id); err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart.Id)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if item.Product.Stock < quantity {
		return nil, &InsufficientStockError{ProductName: item.Product.Name, Available: item.Product.Stock}
	}

	if err := s.db.WithContext(ctx).Model(item).Update("quantity", quantity).Error; err != nil {
		return nil, err
	}
	if err := s.touchCart(ctx, item.CartID); err != nil {
		return nil, err
	}
	return s.buildView(ctx, item.CartID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) (*CartView, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&models.CartItem{}, item.Id).Error; err != nil {
		return nil, err
	}
	if err := s.touchCart(ctx, item.CartID); err != nil {
		return nil, err
	}
	return s.buildView(ctx, item.CartID)
}

// ClearCart removes every line; the cart row itself stays for reuse.
func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	var cart models.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.Id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return s.touchCart(ctx, cart.Id)
}

func (s *CartService) getOrCreateCart(ctx context.Context, db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = db.WithContext(ctx).Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ownedItem fetches a cart item only if the cart belongs to the user, so a
// caller can never touch another shopper's lines.
func (s *CartService) ownedItem(ctx context.Context, userID, itemID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *CartService) touchCart(ctx context.Context, cartID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

func (s *CartService) buildView(ctx context.Context, cartID uint) (*CartView, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).Preload("Items.Product").First(&cart, cartID).Error
	if err != nil {
		return nil, err
	}
	return newCartView(&cart), nil
}

func newCartView(cart *models.Cart) *CartView {
	view := &CartView{
		Id:          cart.Id,
		UserID:      cart.UserID,
		Items:       make([]CartItemView, 0, len(cart.Items)),
		TotalAmount: decimal.Zero,
	}
	for _, item := range cart.Items {
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, CartItemView{
			Id:              item.Id,
			ProductID:       item.ProductID,
			ProductName:     item.Product.Name,
			ProductImageURL: item.Product.ImageURL,
			ProductPrice:    item.Product.Price,
			Quantity:        item.Quantity,
			Subtotal:        subtotal,
		})
		view.TotalAmount = view.TotalAmount.Add(subtotal)
		view.TotalItems += item.Quantity
	}
	return view
}
