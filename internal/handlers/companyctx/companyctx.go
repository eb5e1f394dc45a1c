package companyctx

import (
	"context"

	"github.com/mercatto/backend/internal/models"
)

type ctxKey string

const companyKey ctxKey = "company"

// Create a new context with the acting company
func New(ctx context.Context, c models.CompanyInfo) context.Context {
	return context.WithValue(ctx, companyKey, c)
}

// Extract the acting company from the context
func FromContext(ctx context.Context) (models.CompanyInfo, bool) {
	c, ok := ctx.Value(companyKey).(models.CompanyInfo)
	return c, ok
}
