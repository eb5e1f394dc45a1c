package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mercatto/backend/internal/handlers/middleware"
	"github.com/mercatto/backend/internal/logger"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
	"github.com/mercatto/backend/internal/service/account"
	"github.com/mercatto/backend/internal/service/order"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	accountService accountService,
	catalogService catalogService,
	orderService orderService,
	logger logger.Logger,
) http.Handler {
	asClient := middleware.RequireRole(authService, models.RoleClient)
	asAdmin := middleware.RequireRole(authService, models.RoleAdmin)

	api := http.NewServeMux()

	api.Handle("POST /login", handleLogin(authService, logger))
	api.Handle("POST /forgot-password", handleForgotPassword(accountService, logger))
	api.Handle("POST /reset-password", handleResetPassword(accountService, logger))

	api.Handle("POST /companies", handleRegisterCompany(accountService, logger))
	api.Handle("POST /companies/verify-email", handleVerifyEmail(accountService, logger))

	api.Handle("GET /products", handleListProducts(catalogService, logger))
	api.Handle("GET /products/{id}", handleGetProduct(catalogService, logger))
	api.Handle("GET /categories", handleListCategories(catalogService, logger))
	api.Handle("GET /kits", handleListKits(catalogService, logger))
	api.Handle("GET /coupons/{code}", asClient(handleGetCoupon(catalogService, logger)))

	api.Handle("POST /orders", asClient(handleCreateOrder(orderService, logger)))
	api.Handle("GET /orders", asClient(handleListOrders(orderService, logger)))

	api.Handle("GET /admin/companies", asAdmin(handleListCompanies(accountService, logger)))
	api.Handle("PATCH /admin/companies/{id}/active", asAdmin(handleSetCompanyActive(accountService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return chain(root,
		middleware.LoggerMiddleware(logger),
	)
}

type authService interface {
	// Login with email or cnpj and password
	// Has to return apperrors.ErrInvalidCredentials on any credential failure
	Login(ctx context.Context, login string, password string) (models.IssuedToken, error)

	// Permission check used by middleware.RequireRole
	// Has to return apperrors.ErrUnauthorized on any failure
	Authorize(ctx context.Context, authorization string, role string) (models.CompanyInfo, error)
}

type accountService interface {
	// Register new inactive company and send the verification email
	// Has to return apperrors.ErrCompanyAlreadyExists on duplicate cnpj or email
	Register(ctx context.Context, arg account.RegisterParams) (models.Company, error)

	// Consume verification token and activate the company
	// Has to return apperrors.ErrEmailTokenNotFound if token is unknown or expired
	VerifyEmail(ctx context.Context, token string, companyID uuid.UUID) error

	// Issue reset token and mail the link. Unknown login succeeds silently
	ForgotPassword(ctx context.Context, login string) error

	// Consume reset token and store the new password hash
	ResetPassword(ctx context.Context, token string, companyID uuid.UUID, newPassword string) error

	SetCompanyActive(ctx context.Context, id uuid.UUID, active bool) error
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

type catalogService interface {
	ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListKits(ctx context.Context, activeOnly bool) ([]models.Kit, error)
	GetCouponByCode(ctx context.Context, code string) (models.Coupon, error)
}

type orderService interface {
	CreateOrder(ctx context.Context, companyID uuid.UUID, items []order.NewOrderItem, couponCode string) (models.Order, error)
	ListOrders(ctx context.Context, companyID uuid.UUID) ([]models.Order, error)
}
