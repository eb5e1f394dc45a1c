package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
)

// Order service: create and list orders of the authenticated company
type Service struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *Service {
	return &Service{storage: storage}
}

type NewOrderItem struct {
	ProductID int64
	Quantity  int32
}

// CreateOrder prices the items from the current catalog, applies the
// optional coupon and persists the order as PENDING
func (s *Service) CreateOrder(ctx context.Context, companyID uuid.UUID, items []NewOrderItem, couponCode string) (models.Order, error) {
	var order models.Order

	if len(items) == 0 {
		return order, apperrors.ErrOrderEmpty
	}

	now := time.Now()

	total := decimal.Zero
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.storage.Catalog().GetProduct(ctx, item.ProductID)
		if err != nil {
			return order, err
		}
		if !product.Active {
			return order, fmt.Errorf("product %d: %w", item.ProductID, apperrors.ErrProductNotFound)
		}
		if item.Quantity <= 0 {
			return order, fmt.Errorf("product %d: quantity must be positive", item.ProductID)
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.BasePrice,
		})
		total = total.Add(product.BasePrice.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	var couponID *int64
	if couponCode != "" {
		coupon, err := s.storage.Catalog().GetCouponByCode(ctx, couponCode)
		if err != nil {
			return order, err
		}
		if !coupon.ValidAt(now) {
			return order, apperrors.ErrCouponInactive
		}

		total = coupon.Discount(total)
		couponID = &coupon.ID
	}

	return s.storage.Order().Create(ctx, repository.CreateOrderParams{
		CompanyID: companyID,
		CouponID:  couponID,
		Status:    models.OrderStatusPending,
		Total:     total,
		Items:     orderItems,
		CreatedAt: now,
	})
}

func (s *Service) ListOrders(ctx context.Context, companyID uuid.UUID) ([]models.Order, error) {
	return s.storage.Order().ListByCompany(ctx, companyID)
}
