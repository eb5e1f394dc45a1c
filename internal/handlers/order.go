package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/handlers/companyctx"
	"github.com/mercatto/backend/internal/handlers/render"
	"github.com/mercatto/backend/internal/logger"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/service/order"
)

type orderItemResponse struct {
	ProductID int64           `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Status    string              `json:"status"`
	Total     decimal.Decimal     `json:"total"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

func toOrderResponse(o models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return orderResponse{
		ID:        o.ID,
		Status:    o.Status,
		Total:     o.Total,
		Items:     items,
		CreatedAt: o.CreatedAt,
	}
}

func handleCreateOrder(os orderService, l logger.Logger) http.Handler {
	type itemRequest struct {
		ProductID int64 `json:"product_id" validate:"required"`
		Quantity  int32 `json:"quantity" validate:"required,min=1"`
	}
	type request struct {
		Items      []itemRequest `json:"items" validate:"required,min=1,dive"`
		CouponCode string        `json:"coupon_code"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		company, _ := companyctx.FromContext(r.Context())

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		items := make([]order.NewOrderItem, 0, len(data.Items))
		for _, it := range data.Items {
			items = append(items, order.NewOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		created, err := os.CreateOrder(r.Context(), company.ID, items, data.CouponCode)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrOrderEmpty),
				errors.Is(err, apperrors.ErrProductNotFound),
				errors.Is(err, apperrors.ErrCouponNotFound),
				errors.Is(err, apperrors.ErrCouponInactive):
				render.ServiceError(w, err.Error(), http.StatusBadRequest)
			default:
				l.Error("order creation failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSONWithStatus(w, toOrderResponse(created), http.StatusCreated)
	})
}

func handleListOrders(os orderService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		company, _ := companyctx.FromContext(r.Context())

		orders, err := os.ListOrders(r.Context(), company.ID)
		if err != nil {
			l.Error("listing orders failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			response = append(response, toOrderResponse(o))
		}
		render.JSON(w, response)
	})
}
