package catalog

import (
	"context"

	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
)

// Catalog service, a thin layer over the catalog repository.
// Listing and lookups only: catalog writes happen in back office tooling
type Service struct {
	catalogRepo repository.CatalogRepo
}

func NewService(catalogRepo repository.CatalogRepo) *Service {
	return &Service{catalogRepo: catalogRepo}
}

func (s *Service) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	return s.catalogRepo.ListProducts(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	return s.catalogRepo.GetProduct(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.catalogRepo.ListCategories(ctx)
}

func (s *Service) ListKits(ctx context.Context, activeOnly bool) ([]models.Kit, error) {
	return s.catalogRepo.ListKits(ctx, activeOnly)
}

func (s *Service) GetCouponByCode(ctx context.Context, code string) (models.Coupon, error) {
	return s.catalogRepo.GetCouponByCode(ctx, code)
}
