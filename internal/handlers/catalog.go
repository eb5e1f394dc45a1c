package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/handlers/render"
	"github.com/mercatto/backend/internal/logger"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
)

type productResponse struct {
	ID          int64           `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  int64           `json:"category_id"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Active      bool            `json:"active"`
}

func toProductResponse(p models.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		BasePrice:   p.BasePrice,
		Active:      p.Active,
	}
}

func handleListProducts(cs catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter, err := productFilterFromQuery(r)
		if err != nil {
			render.ServiceError(w, err.Error(), http.StatusBadRequest)
			return
		}

		products, err := cs.ListProducts(r.Context(), filter)
		if err != nil {
			l.Error("listing products failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		response := make([]productResponse, 0, len(products))
		for _, p := range products {
			response = append(response, toProductResponse(p))
		}
		render.JSON(w, response)
	})
}

// productFilterFromQuery reads the optional listing filters:
// category_id, search, min_price, max_price, active
func productFilterFromQuery(r *http.Request) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		ActiveOnly: true,
	}

	if v := r.URL.Query().Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("invalid 'active' value")
		}
		filter.ActiveOnly = active
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("invalid 'category_id' value")
		}
		filter.CategoryID = &id
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil || price.IsNegative() {
			return filter, errors.New("invalid 'min_price' value")
		}
		filter.MinPrice = &price
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil || price.IsNegative() {
			return filter, errors.New("invalid 'max_price' value")
		}
		filter.MaxPrice = &price
	}

	return filter, nil
}

func handleGetProduct(cs catalogService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.ServiceError(w, "Product not found", http.StatusNotFound)
			return
		}

		product, err := cs.GetProduct(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrProductNotFound):
				render.ServiceError(w, "Product not found", http.StatusNotFound)
			default:
				l.Error("getting product failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, toProductResponse(product))
	})
}

func handleListCategories(cs catalogService, l logger.Logger) http.Handler {
	type response struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := cs.ListCategories(r.Context())
		if err != nil {
			l.Error("listing categories failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		resp := make([]response, 0, len(categories))
		for _, c := range categories {
			resp = append(resp, response{ID: c.ID, Name: c.Name})
		}
		render.JSON(w, resp)
	})
}

func handleListKits(cs catalogService, l logger.Logger) http.Handler {
	type kitItemResponse struct {
		ProductID int64 `json:"product_id"`
		Quantity  int32 `json:"quantity"`
	}
	type response struct {
		ID          int64             `json:"id"`
		Code        string            `json:"code"`
		Name        string            `json:"name"`
		Description string            `json:"description,omitempty"`
		TotalPrice  decimal.Decimal   `json:"total_price"`
		Active      bool              `json:"active"`
		Items       []kitItemResponse `json:"items"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activeOnly := true
		if v := r.URL.Query().Get("active"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				render.ServiceError(w, "invalid 'active' value", http.StatusBadRequest)
				return
			}
			activeOnly = parsed
		}

		kits, err := cs.ListKits(r.Context(), activeOnly)
		if err != nil {
			l.Error("listing kits failed", "error", err.Error())
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		resp := make([]response, 0, len(kits))
		for _, k := range kits {
			items := make([]kitItemResponse, 0, len(k.Items))
			for _, it := range k.Items {
				items = append(items, kitItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
			}
			resp = append(resp, response{
				ID:          k.ID,
				Code:        k.Code,
				Name:        k.Name,
				Description: k.Description,
				TotalPrice:  k.TotalPrice,
				Active:      k.Active,
				Items:       items,
			})
		}
		render.JSON(w, resp)
	})
}

func handleGetCoupon(cs catalogService, l logger.Logger) http.Handler {
	type response struct {
		Code       string          `json:"code"`
		Kind       string          `json:"kind"`
		Value      decimal.Decimal `json:"value"`
		ValidFrom  *time.Time      `json:"valid_from,omitempty"`
		ValidUntil *time.Time      `json:"valid_until,omitempty"`
		Active     bool            `json:"active"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		coupon, err := cs.GetCouponByCode(r.Context(), r.PathValue("code"))
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrCouponNotFound):
				render.ServiceError(w, "Coupon not found", http.StatusNotFound)
			default:
				l.Error("getting coupon failed", "error", err.Error())
				render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, response{
			Code:       coupon.Code,
			Kind:       coupon.Kind,
			Value:      coupon.Value,
			ValidFrom:  coupon.ValidFrom,
			ValidUntil: coupon.ValidUntil,
			Active:     coupon.Active,
		})
	})
}
