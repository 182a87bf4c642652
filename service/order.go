package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ZuLoiZo/ShopSphere/models"
)

type OrderItemView struct {
	Id              uint            `json:"id"`
	ProductID       uint            `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductImageURL string          `json:"product_image_url"`
	Quantity        int             `json:"quantity"`
	PriceAtOrder    decimal.Decimal `json:"price_at_order"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type OrderView struct {
	Id              uint               `json:"id"`
	OrderNumber     string             `json:"order_number"`
	UserID          uint               `json:"user_id"`
	Status          models.OrderStatus `json:"status"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []OrderItemView    `json:"items"`
	CreatedAt       time.Time          `json:"created_at"`
}

type OrderPage struct {
	Orders     []OrderView `json:"orders"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrder converts the user's cart into an order as one transaction:
// order row, order lines with the price snapshot, stock decrements and
// cart clearing all commit or roll back together. The decrement is
// conditional on remaining stock, so two placements racing for the last
// units cannot both win; the loser gets InsufficientStockError.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint, shippingAddress string) (*OrderView, error) {
	orderID, err := s.placeOrderTx(ctx, userID, shippingAddress)
	if isRetryableTxError(err) {
		orderID, err = s.placeOrderTx(ctx, userID, shippingAddress)
	}
	if err != nil {
		return nil, err
	}
	return s.loadView(ctx, orderID)
}

func (s *OrderService) placeOrderTx(ctx context.Context, userID uint, shippingAddress string) (uint, error) {
	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		err := tx.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// up-front check so an obviously short cart fails before any write
		for _, item := range cart.Items {
			if item.Product.Stock < item.Quantity {
				return &InsufficientStockError{ProductName: item.Product.Name, Available: item.Product.Stock}
			}
		}

		total := decimal.Zero
		for _, item := range cart.Items {
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		order := models.Order{
			OrderNumber:     uuid.NewString(),
			UserID:          userID,
			Status:          models.OrderStatusPending,
			TotalAmount:     total,
			ShippingAddress: shippingAddress,
		}
		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, item := range cart.Items {
			line := models.OrderItem{
				OrderID:      order.Id,
				ProductID:    item.ProductID,
				Quantity:     item.Quantity,
				PriceAtOrder: item.Product.Price,
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create order line: %w", err)
			}

			// conditional decrement: the WHERE clause rejects the update if
			// a concurrent order already took the stock we read above
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("decrement stock: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				// report what is left now; if the re-read fails, fall back
				// to the last stock value this transaction saw
				available := item.Product.Stock
				var fresh int
				err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Select("stock").
					Scan(&fresh).Error
				if err == nil {
					available = fresh
				}
				return &InsufficientStockError{ProductName: item.Product.Name, Available: available}
			}
		}

		if err := tx.Where("cart_id = ?", cart.Id).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if err := tx.Model(&cart).Update("updated_at", time.Now()).Error; err != nil {
			return err
		}

		orderID = order.Id
		return nil
	})
	return orderID, err
}

// GetOrder returns the order only if it belongs to the user.
func (s *OrderService) GetOrder(ctx context.Context, userID, orderID uint) (*OrderView, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return newOrderView(&order), nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID uint, page, pageSize int) (*OrderPage, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)
	return s.listOrders(ctx, query, page, pageSize)
}

// ListAllOrders is the admin view; status filters when non-empty.
func (s *OrderService) ListAllOrders(ctx context.Context, status string, page, pageSize int) (*OrderPage, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		parsed, ok := models.ParseOrderStatus(status)
		if !ok {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", parsed)
	}
	return s.listOrders(ctx, query, page, pageSize)
}

func (s *OrderService) listOrders(ctx context.Context, query *gorm.DB, page, pageSize int) (*OrderPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []models.Order
	err := query.
		Preload("Items.Product").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	result := &OrderPage{
		Orders:     make([]OrderView, 0, len(orders)),
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
	for i := range orders {
		result.Orders = append(result.Orders, *newOrderView(&orders[i]))
	}
	return result, nil
}

// UpdateStatus sets a new fulfillment status. Delivered and Cancelled are
// terminal; the WHERE clause enforces that in the update itself, so two
// racing updates cannot both get past a stale terminal check.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) error {
	parsed, ok := models.ParseOrderStatus(status)
	if !ok {
		return ErrInvalidStatus
	}

	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status NOT IN ?", orderID,
			[]models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled}).
		Update("status", parsed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var order models.Order
		if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return fmt.Errorf("%w: order is already %s", ErrInvalidStatus, order.Status)
	}
	return nil
}

func (s *OrderService) loadView(ctx context.Context, orderID uint) (*OrderView, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items.Product").First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return newOrderView(&order), nil
}

func newOrderView(order *models.Order) *OrderView {
	view := &OrderView{
		Id:              order.Id,
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Status:          order.Status,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		Items:           make([]OrderItemView, 0, len(order.Items)),
		CreatedAt:       order.CreatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, OrderItemView{
			Id:              item.Id,
			ProductID:       item.ProductID,
			ProductName:     item.Product.Name,
			ProductImageURL: item.Product.ImageURL,
			Quantity:        item.Quantity,
			PriceAtOrder:    item.PriceAtOrder,
			Subtotal:        item.PriceAtOrder.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return view
}

// isRetryableTxError matches Postgres serialization failures and deadlocks;
// business-rule failures are never retried.
func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	} else if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
