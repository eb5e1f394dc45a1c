package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
	"github.com/mercatto/backend/internal/repository/postgres"
	"github.com/mercatto/backend/internal/testutil"
)

func Test_OrderService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	type fixture struct {
		CompanyID uuid.UUID
		Rice      int64
		Beans     int64
		Inactive  int64
	}

	seed := func(t *testing.T, tx pgx.Tx, storage repository.Storage) fixture {
		t.Helper()

		company, err := storage.Company().Create(t.Context(), repository.CreateCompanyParams{
			CNPJ:         "12345678000190",
			Email:        "loja@example.com",
			LegalName:    "Loja Exemplo LTDA",
			TradeName:    "Loja Exemplo",
			PasswordHash: "hashedpassword123",
			Role:         models.RoleClient,
			Active:       true,
			Address:      models.Address{PostalCode: "01001-000", Street: "Praça da Sé", Number: "100", City: "São Paulo", State: "SP"},
			Contact:      models.Contact{Name: "Maria", Email: "maria@example.com"},
		})
		require.NoError(t, err)

		var categoryID int64
		err = tx.QueryRow(t.Context(), `INSERT INTO categories (name) VALUES ('Alimentos') RETURNING id`).Scan(&categoryID)
		require.NoError(t, err)

		product := func(code string, name string, price string, active bool) int64 {
			var id int64
			err := tx.QueryRow(t.Context(),
				`INSERT INTO products (code, name, category_id, base_price, active)
				 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
				code, name, categoryID, price, active).Scan(&id)
			require.NoError(t, err)
			return id
		}

		return fixture{
			CompanyID: company.ID,
			Rice:      product("P-001", "Arroz", "19.90", true),
			Beans:     product("P-002", "Feijão", "9.50", true),
			Inactive:  product("P-003", "Farinha", "4.20", false),
		}
	}

	seedCoupon := func(t *testing.T, tx pgx.Tx, code string, kind string, value string, active bool) {
		t.Helper()

		_, err := tx.Exec(t.Context(),
			`INSERT INTO coupons (code, kind, value, active) VALUES ($1, $2, $3, $4)`,
			code, kind, value, active)
		require.NoError(t, err)
	}

	// Begin new db transaction and create new order service
	// Rollback transaction when test stops
	withTx := func(t *testing.T, fn func(s *Service, tx pgx.Tx, f fixture)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			storage := postgres.NewStorage(tx)
			fn(NewService(storage), tx, seed(t, tx, storage))
		})
	}

	t.Run("CreateOrder", func(t *testing.T) {
		t.Run("prices items from catalog", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				order, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Rice, Quantity: 2},
					{ProductID: f.Beans, Quantity: 1},
				}, "")

				require.NoError(t, err)
				assert.Equal(t, models.OrderStatusPending, order.Status)
				assert.True(t, decimal.RequireFromString("49.30").Equal(order.Total), "total should be 2*19.90 + 9.50, got %s", order.Total)
				require.Len(t, order.Items, 2)
				assert.True(t, decimal.RequireFromString("19.90").Equal(order.Items[0].UnitPrice), "unit price comes from the catalog")
				assert.WithinDuration(t, time.Now(), order.CreatedAt, time.Second)
			})
		})

		t.Run("fail if no items", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				_, err := s.CreateOrder(t.Context(), f.CompanyID, nil, "")

				require.ErrorIs(t, err, apperrors.ErrOrderEmpty)
			})
		})

		t.Run("fail if product unknown", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				_, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: 99999, Quantity: 1},
				}, "")

				require.ErrorIs(t, err, apperrors.ErrProductNotFound)
			})
		})

		t.Run("fail if product inactive", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				_, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Inactive, Quantity: 1},
				}, "")

				require.ErrorIs(t, err, apperrors.ErrProductNotFound, "inactive products can't be ordered")
			})
		})

		t.Run("fail if quantity not positive", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				_, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Rice, Quantity: 0},
				}, "")

				require.Error(t, err)
			})
		})

		t.Run("percent coupon", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				seedCoupon(t, tx, "PROMO10", models.CouponPercent, "10.00", true)

				order, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Rice, Quantity: 1},
				}, "PROMO10")

				require.NoError(t, err)
				require.NotNil(t, order.CouponID)
				assert.True(t, decimal.RequireFromString("17.91").Equal(order.Total), "10%% off 19.90, got %s", order.Total)
			})
		})

		t.Run("fixed coupon", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				seedCoupon(t, tx, "MENOS5", models.CouponFixed, "5.00", true)

				order, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Rice, Quantity: 1},
				}, "MENOS5")

				require.NoError(t, err)
				assert.True(t, decimal.RequireFromString("14.90").Equal(order.Total), "got %s", order.Total)
			})
		})

		t.Run("fixed coupon never goes negative", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				seedCoupon(t, tx, "MENOS100", models.CouponFixed, "100.00", true)

				order, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Beans, Quantity: 1},
				}, "MENOS100")

				require.NoError(t, err)
				assert.True(t, order.Total.IsZero(), "total floors at zero, got %s", order.Total)
			})
		})

		t.Run("fail if coupon unknown", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				_, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Rice, Quantity: 1},
				}, "NOPE")

				require.ErrorIs(t, err, apperrors.ErrCouponNotFound)
			})
		})

		t.Run("fail if coupon inactive", func(t *testing.T) {
			withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
				seedCoupon(t, tx, "OLD", models.CouponPercent, "10.00", false)

				_, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
					{ProductID: f.Rice, Quantity: 1},
				}, "OLD")

				require.ErrorIs(t, err, apperrors.ErrCouponInactive)
			})
		})
	})

	t.Run("ListOrders", func(t *testing.T) {
		withTx(t, func(s *Service, tx pgx.Tx, f fixture) {
			_, err := s.CreateOrder(t.Context(), f.CompanyID, []NewOrderItem{
				{ProductID: f.Rice, Quantity: 1},
			}, "")
			require.NoError(t, err)

			orders, err := s.ListOrders(t.Context(), f.CompanyID)

			require.NoError(t, err)
			require.Len(t, orders, 1)
			require.Len(t, orders[0].Items, 1)
		})
	})
}
