package middleware

import (
	"context"
	"net/http"

	"github.com/mercatto/backend/internal/handlers/companyctx"
	"github.com/mercatto/backend/internal/handlers/render"
	"github.com/mercatto/backend/internal/models"
)

type authService interface {
	// Resolve the acting company from the Authorization header value
	// and check it has the required role.
	// Must return apperrors.ErrUnauthorized for every failure mode
	Authorize(ctx context.Context, authorization string, role string) (models.CompanyInfo, error)
}

// RequireRole guards a handler behind the permission check.
// The response never says which check failed
func RequireRole(as authService, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			company, err := as.Authorize(r.Context(), r.Header.Get("Authorization"), role)
			if err != nil {
				render.ServiceError(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := companyctx.New(r.Context(), company)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
