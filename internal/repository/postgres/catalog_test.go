package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/repository"
	"github.com/mercatto/backend/internal/testutil"
)

// Catalog rows are managed outside the API, tests seed them raw
func seedCategory(t *testing.T, tx pgx.Tx, name string) int64 {
	t.Helper()

	var id int64
	err := tx.QueryRow(t.Context(),
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedProduct(t *testing.T, tx pgx.Tx, code string, name string, categoryID int64, price string, active bool) int64 {
	t.Helper()

	var id int64
	err := tx.QueryRow(t.Context(),
		`INSERT INTO products (code, name, category_id, base_price, active)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		code, name, categoryID, price, active).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedKit(t *testing.T, tx pgx.Tx, code string, name string, price string, active bool, productIDs ...int64) int64 {
	t.Helper()

	var id int64
	err := tx.QueryRow(t.Context(),
		`INSERT INTO kits (code, name, total_price, active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		code, name, price, active).Scan(&id)
	require.NoError(t, err)

	for _, productID := range productIDs {
		_, err := tx.Exec(t.Context(),
			`INSERT INTO kit_products (kit_id, product_id, quantity) VALUES ($1, $2, 2)`, id, productID)
		require.NoError(t, err)
	}
	return id
}

func seedCoupon(t *testing.T, tx pgx.Tx, code string, kind string, value string, active bool) int64 {
	t.Helper()

	var id int64
	err := tx.QueryRow(t.Context(),
		`INSERT INTO coupons (code, kind, value, active)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		code, kind, value, active).Scan(&id)
	require.NoError(t, err)
	return id
}

func Test_CatalogRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("list products", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}
			foods := seedCategory(t, tx, "Alimentos")
			drinks := seedCategory(t, tx, "Bebidas")
			seedProduct(t, tx, "P-001", "Arroz", foods, "19.90", true)
			seedProduct(t, tx, "P-002", "Feijão", foods, "9.50", true)
			seedProduct(t, tx, "P-003", "Suco de uva", drinks, "7.00", true)
			seedProduct(t, tx, "P-004", "Farinha", foods, "4.20", false)

			t.Run("active only by default filter", func(t *testing.T) {
				products, err := r.ListProducts(t.Context(), repository.ProductFilter{ActiveOnly: true})

				require.NoError(t, err)
				assert.Len(t, products, 3, "inactive products are hidden")
			})

			t.Run("including inactive", func(t *testing.T) {
				products, err := r.ListProducts(t.Context(), repository.ProductFilter{})

				require.NoError(t, err)
				assert.Len(t, products, 4)
			})

			t.Run("by category", func(t *testing.T) {
				products, err := r.ListProducts(t.Context(), repository.ProductFilter{ActiveOnly: true, CategoryID: &drinks})

				require.NoError(t, err)
				require.Len(t, products, 1)
				assert.Equal(t, "Suco de uva", products[0].Name)
			})

			t.Run("by search", func(t *testing.T) {
				products, err := r.ListProducts(t.Context(), repository.ProductFilter{ActiveOnly: true, Search: "arr"})

				require.NoError(t, err)
				require.Len(t, products, 1)
				assert.Equal(t, "Arroz", products[0].Name)
			})

			t.Run("by price range", func(t *testing.T) {
				minPrice := decimal.RequireFromString("5.00")
				maxPrice := decimal.RequireFromString("10.00")

				products, err := r.ListProducts(t.Context(), repository.ProductFilter{
					ActiveOnly: true,
					MinPrice:   &minPrice,
					MaxPrice:   &maxPrice,
				})

				require.NoError(t, err)
				assert.Len(t, products, 2)
			})

			t.Run("combined filters", func(t *testing.T) {
				minPrice := decimal.RequireFromString("5.00")

				products, err := r.ListProducts(t.Context(), repository.ProductFilter{
					ActiveOnly: true,
					CategoryID: &foods,
					MinPrice:   &minPrice,
				})

				require.NoError(t, err)
				assert.Len(t, products, 2)
			})
		})
	})

	t.Run("get product", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}
			foods := seedCategory(t, tx, "Alimentos")
			id := seedProduct(t, tx, "P-001", "Arroz", foods, "19.90", true)

			product, err := r.GetProduct(t.Context(), id)

			require.NoError(t, err)
			assert.Equal(t, "Arroz", product.Name)
			assert.Equal(t, "P-001", product.Code)
			assert.True(t, decimal.RequireFromString("19.90").Equal(product.BasePrice))
		})
	})

	t.Run("get product not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}

			_, err := r.GetProduct(t.Context(), 99999)

			assert.ErrorIs(t, err, apperrors.ErrProductNotFound, "should return well known error")
		})
	})

	t.Run("list categories", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}
			seedCategory(t, tx, "Bebidas")
			seedCategory(t, tx, "Alimentos")

			categories, err := r.ListCategories(t.Context())

			require.NoError(t, err)
			require.Len(t, categories, 2)
			assert.Equal(t, "Alimentos", categories[0].Name, "categories are sorted by name")
		})
	})

	t.Run("list kits", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}
			foods := seedCategory(t, tx, "Alimentos")
			rice := seedProduct(t, tx, "P-001", "Arroz", foods, "19.90", true)
			beans := seedProduct(t, tx, "P-002", "Feijão", foods, "9.50", true)
			seedKit(t, tx, "K-001", "Cesta básica", "49.90", true, rice, beans)
			seedKit(t, tx, "K-002", "Kit antigo", "10.00", false)

			t.Run("active only", func(t *testing.T) {
				kits, err := r.ListKits(t.Context(), true)

				require.NoError(t, err)
				require.Len(t, kits, 1)
				assert.Equal(t, "Cesta básica", kits[0].Name)
				assert.Len(t, kits[0].Items, 2, "kit items should be loaded")
			})

			t.Run("all", func(t *testing.T) {
				kits, err := r.ListKits(t.Context(), false)

				require.NoError(t, err)
				assert.Len(t, kits, 2)
			})
		})
	})

	t.Run("get coupon by code", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}
			seedCoupon(t, tx, "PROMO10", "PERCENT", "10.00", true)

			coupon, err := r.GetCouponByCode(t.Context(), "PROMO10")

			require.NoError(t, err)
			assert.Equal(t, "PROMO10", coupon.Code)
			assert.Equal(t, "PERCENT", coupon.Kind)
			assert.True(t, coupon.Active)
		})
	})

	t.Run("get coupon not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := CatalogRepo{DB: tx}

			_, err := r.GetCouponByCode(t.Context(), "NOPE")

			assert.ErrorIs(t, err, apperrors.ErrCouponNotFound)
		})
	})
}
