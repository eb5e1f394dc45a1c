package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
)

type OrderRepo struct {
	DB DBTX
}

const createOrder = `-- name: CreateOrder
INSERT INTO orders (id, company_id, coupon_id, status, total, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
RETURNING id, company_id, coupon_id, status, total, created_at, updated_at
`

const createOrderItem = `-- name: CreateOrderItem
INSERT INTO order_items (order_id, product_id, quantity, unit_price)
VALUES ($1, $2, $3, $4)
RETURNING id
`

func (r *OrderRepo) Create(ctx context.Context, arg repository.CreateOrderParams) (models.Order, error) {
	var order models.Order

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return order, fmt.Errorf("db tx error: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, _ := tx.Query(ctx, createOrder,
		uuid.New(), arg.CompanyID, arg.CouponID, arg.Status, arg.Total, arg.CreatedAt)
	order, err = pgx.CollectOneRow(rows, rowToOrder)
	if err != nil {
		return order, fmt.Errorf("db error: %w", err)
	}

	for _, item := range arg.Items {
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, createOrderItem, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID)
		if err != nil {
			return order, fmt.Errorf("db error: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return order, fmt.Errorf("db tx error: %w", err)
	}

	return order, nil
}

const listOrdersByCompany = `-- name: ListOrdersByCompany
SELECT id, company_id, coupon_id, status, total, created_at, updated_at
FROM orders
WHERE company_id = $1
ORDER BY created_at DESC
`

const listOrderItems = `-- name: ListOrderItems
SELECT id, order_id, product_id, quantity, unit_price
FROM order_items
WHERE order_id = ANY($1)
ORDER BY id
`

func (r *OrderRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Order, error) {
	rows, _ := r.DB.Query(ctx, listOrdersByCompany, companyID)
	orders, err := pgx.CollectRows(rows, rowToOrder)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		byID[orders[i].ID] = &orders[i]
	}

	itemRows, _ := r.DB.Query(ctx, listOrderItems, ids)
	items, err := pgx.CollectRows(itemRows, func(row pgx.CollectableRow) (models.OrderItem, error) {
		var it models.OrderItem
		err := row.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, it := range items {
		order := byID[it.OrderID]
		order.Items = append(order.Items, it)
	}

	return orders, nil
}

func rowToOrder(row pgx.CollectableRow) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.CompanyID, &o.CouponID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
