package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
)

type CatalogRepo struct {
	DB DBTX
}

const listProductsBase = `-- name: ListProducts
SELECT id, code, name, description, category_id, base_price, active, created_at, updated_at
FROM products
`

func (r *CatalogRepo) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ActiveOnly {
		conds = append(conds, "active")
	}
	if filter.CategoryID != nil {
		conds = append(conds, "category_id = "+arg(*filter.CategoryID))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filter.MinPrice != nil {
		conds = append(conds, "base_price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, "base_price <= "+arg(*filter.MaxPrice))
	}

	query := listProductsBase
	if len(conds) > 0 {
		query += "WHERE " + strings.Join(conds, " AND ") + "\n"
	}
	query += "ORDER BY name"

	rows, _ := r.DB.Query(ctx, query, args...)
	products, err := pgx.CollectRows(rows, rowToProduct)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return products, nil
}

const getProduct = `-- name: GetProduct
SELECT id, code, name, description, category_id, base_price, active, created_at, updated_at
FROM products
WHERE id = $1
`

func (r *CatalogRepo) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	rows, _ := r.DB.Query(ctx, getProduct, id)
	product, err := pgx.CollectOneRow(rows, rowToProduct)

	switch {
	case err == nil:
		return product, nil
	case errors.Is(err, pgx.ErrNoRows):
		return product, apperrors.ErrProductNotFound
	default:
		return product, fmt.Errorf("db error: %w", err)
	}
}

const listCategories = `-- name: ListCategories
SELECT id, name, created_at, updated_at
FROM categories
ORDER BY name
`

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, _ := r.DB.Query(ctx, listCategories)
	categories, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Category, error) {
		var c models.Category
		err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

const listKits = `-- name: ListKits
SELECT id, code, name, description, total_price, active, created_at, updated_at
FROM kits
WHERE active OR NOT $1
ORDER BY name
`

const listKitItems = `-- name: ListKitItems
SELECT kit_id, product_id, quantity
FROM kit_products
WHERE kit_id = ANY($1)
`

func (r *CatalogRepo) ListKits(ctx context.Context, activeOnly bool) ([]models.Kit, error) {
	rows, _ := r.DB.Query(ctx, listKits, activeOnly)
	kits, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Kit, error) {
		var k models.Kit
		err := row.Scan(&k.ID, &k.Code, &k.Name, &k.Description, &k.TotalPrice, &k.Active, &k.CreatedAt, &k.UpdatedAt)
		return k, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(kits) == 0 {
		return kits, nil
	}

	ids := make([]int64, len(kits))
	byID := make(map[int64]*models.Kit, len(kits))
	for i := range kits {
		ids[i] = kits[i].ID
		byID[kits[i].ID] = &kits[i]
	}

	itemRows, _ := r.DB.Query(ctx, listKitItems, ids)
	type kitItemRow struct {
		KitID     int64
		ProductID int64
		Quantity  int32
	}
	items, err := pgx.CollectRows(itemRows, func(row pgx.CollectableRow) (kitItemRow, error) {
		var it kitItemRow
		err := row.Scan(&it.KitID, &it.ProductID, &it.Quantity)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	for _, it := range items {
		kit := byID[it.KitID]
		kit.Items = append(kit.Items, models.KitItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	return kits, nil
}

const getCouponByCode = `-- name: GetCouponByCode
SELECT id, code, kind, value, valid_from, valid_until, active, created_at, updated_at
FROM coupons
WHERE code = $1
`

func (r *CatalogRepo) GetCouponByCode(ctx context.Context, code string) (models.Coupon, error) {
	rows, _ := r.DB.Query(ctx, getCouponByCode, code)
	coupon, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Coupon, error) {
		var c models.Coupon
		err := row.Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.ValidFrom, &c.ValidUntil, &c.Active, &c.CreatedAt, &c.UpdatedAt)
		return c, err
	})

	switch {
	case err == nil:
		return coupon, nil
	case errors.Is(err, pgx.ErrNoRows):
		return coupon, apperrors.ErrCouponNotFound
	default:
		return coupon, fmt.Errorf("db error: %w", err)
	}
}

func rowToProduct(row pgx.CollectableRow) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID,
		&p.BasePrice, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
