package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/handlers/companyctx"
	"github.com/mercatto/backend/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, authorization string, role string) (models.CompanyInfo, error)

func (f authFunc) Authorize(ctx context.Context, authorization string, role string) (models.CompanyInfo, error) {
	return f(ctx, authorization, role)
}

func TestRequireRole(t *testing.T) {
	// Simple handler that try to get company from context
	// If ok write its trade name to response
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set company or write error to response
		company, ok := companyctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(company.TradeName))
		require.NoError(t, err, "should write trade name to response")
	})

	t.Run("authorized ok", func(t *testing.T) {
		var gotHeader, gotRole string

		middleware := RequireRole(authFunc(func(ctx context.Context, authorization string, role string) (models.CompanyInfo, error) {
			gotHeader = authorization
			gotRole = role
			return models.CompanyInfo{TradeName: "Loja Exemplo", Role: role}, nil
		}), models.RoleClient)

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		req, err := http.NewRequest("GET", srv.URL+"/test", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer some-token")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", string(body))
		require.Equal(t, "Loja Exemplo", string(body), "should return trade name in response")
		require.Equal(t, "Bearer some-token", gotHeader, "header should be passed as is")
		require.Equal(t, models.RoleClient, gotRole, "required role should be passed to the service")
	})

	t.Run("authorize fail", func(t *testing.T) {
		// Middleware that always fails
		middleware := RequireRole(authFunc(func(ctx context.Context, authorization string, role string) (models.CompanyInfo, error) {
			return models.CompanyInfo{}, apperrors.ErrUnauthorized
		}), models.RoleAdmin)

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, err := http.Get(srv.URL + "/test")
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		require.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "should return status Unauthorized. Resp: %s", string(body))
		require.JSONEq(t,
			`{
				"error": "service_error",
				"message": "Invalid or expired token"
			}`,
			string(body),
		)
	})
}
