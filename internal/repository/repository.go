package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mercatto/backend/internal/models"
)

// Storage is the access point to all repositories.
// InTx runs fn against a repository set bound to one transaction, so
// multi-step flows (consume token + update password) stay atomic.
type Storage interface {
	Company() CompanyRepo
	EmailToken() EmailTokenRepo
	Catalog() CatalogRepo
	Order() OrderRepo

	InTx(ctx context.Context, fn func(s Storage) error) error
}

type CreateCompanyParams struct {
	CNPJ         string
	Email        string
	LegalName    string
	TradeName    string
	PasswordHash string
	Role         string
	Active       bool
	Address      models.Address
	Contact      models.Contact
}

// Company repository interface
type CompanyRepo interface {
	// Create company with its first address and contact in one go
	// If cnpj or email is taken already has to return apperrors.ErrCompanyAlreadyExists
	Create(ctx context.Context, arg CreateCompanyParams) (models.Company, error)

	// Get company by either login identifier: email or cnpj.
	// The same request field carries both, the repo decides by matching
	// If nothing matches must return apperrors.ErrCompanyNotFound
	GetByLogin(ctx context.Context, login string) (models.Company, error)

	GetByID(ctx context.Context, id uuid.UUID) (models.Company, error)

	// Get active company by id and role in a single lookup.
	// Wrong role, inactive or missing company are indistinguishable:
	// all return apperrors.ErrCompanyNotFound
	GetByIDAndRole(ctx context.Context, id uuid.UUID, role string) (models.Company, error)

	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error

	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	List(ctx context.Context) ([]models.Company, error)
}

// EmailToken repository interface
// Tokens are single use: Consume deletes the row and reports whether
// anything was deleted, which makes replay impossible even for
// concurrent submissions of the same token
type EmailTokenRepo interface {
	Create(ctx context.Context, token models.EmailToken) error

	// Report whether a not-yet-expired token exists for the triple
	Exists(ctx context.Context, token string, companyID uuid.UUID, purpose string) (bool, error)

	// Delete the token and report whether a row was removed.
	// Expired tokens count as absent
	Consume(ctx context.Context, token string, companyID uuid.UUID, purpose string) (bool, error)
}

type ProductFilter struct {
	CategoryID *int64
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	ActiveOnly bool
}

// Catalog repository interface: products, categories, kits and coupons.
// Read mostly, writes happen through back-office tooling outside this service
type CatalogRepo interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)

	// If product not found must return apperrors.ErrProductNotFound
	GetProduct(ctx context.Context, id int64) (models.Product, error)

	ListCategories(ctx context.Context) ([]models.Category, error)

	ListKits(ctx context.Context, activeOnly bool) ([]models.Kit, error)

	// If coupon not found must return apperrors.ErrCouponNotFound
	GetCouponByCode(ctx context.Context, code string) (models.Coupon, error)
}

type CreateOrderParams struct {
	CompanyID uuid.UUID
	CouponID  *int64
	Status    string
	Total     decimal.Decimal
	Items     []models.OrderItem
	CreatedAt time.Time
}

// Order repository interface
type OrderRepo interface {
	Create(ctx context.Context, arg CreateOrderParams) (models.Order, error)

	// List orders of one company, newest first, items included
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Order, error)
}
