package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercatto/backend/internal/apperrors"
)

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	companyID := uuid.New()
	const email = "loja@example.com"

	newManager := func(t *testing.T, cfg Config) *TokenManager {
		if cfg.SecretKey == "" {
			cfg.SecretKey = "test-secret-key"
		}
		m, err := New(cfg)
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	t.Run("new defaults", func(t *testing.T) {
		m := newManager(t, Config{SecretKey: "secret"})

		require.Equal(t, "secret", m.key, "secret key should be set")
		require.Equal(t, defaultTokenTTL, m.ttl, "default token TTL should be set")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
	})

	t.Run("new without secret", func(t *testing.T) {
		_, err := New(Config{})

		require.Error(t, err, "empty secret key must be rejected")
	})

	t.Run("new with unknown alg", func(t *testing.T) {
		_, err := New(Config{SecretKey: "secret", Alg: "XX999"})

		require.Error(t, err, "unknown signing method must be rejected")
	})

	t.Run("Issue", func(t *testing.T) {
		t.Run("claims", func(t *testing.T) {
			m := newManager(t, Config{})

			issued, err := m.Issue(companyID, email, 15*time.Minute)
			require.NoError(t, err)
			assert.NotEmpty(t, issued.Value, "token should not be empty")
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), issued.ExpiresAt, time.Second)

			token, err := jwt.ParseWithClaims(issued.Value, &Claims{}, func(token *jwt.Token) (any, error) {
				return []byte("test-secret-key"), nil
			})
			require.NoError(t, err)
			require.True(t, token.Valid, "token should be valid")

			claims, ok := token.Claims.(*Claims)
			require.True(t, ok, "claims should be of type Claims")
			assert.Equal(t, companyID.String(), claims.Subject, "company id in 'sub' should match")
			assert.Equal(t, email, claims.Email, "email claim should match")
			assert.NotEmpty(t, claims.ID, "token has to has jti")
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second, "issued at should be close to now")
			assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt.Time, 0, "expires at should match issued token")
		})

		t.Run("default ttl when not set", func(t *testing.T) {
			m := newManager(t, Config{})

			issued, err := m.Issue(companyID, email, 0)

			require.NoError(t, err)
			assert.WithinDuration(t, time.Now().Add(defaultTokenTTL), issued.ExpiresAt, time.Second)
		})

		t.Run("generate different tokens", func(t *testing.T) {
			m := newManager(t, Config{})

			first, err := m.Issue(companyID, email, 15*time.Minute)
			require.NoError(t, err)

			second, err := m.Issue(companyID, email, 15*time.Minute)
			require.NoError(t, err)

			assert.NotEqual(t, first.Value, second.Value, "tokens should be different")
		})
	})

	t.Run("Parse", func(t *testing.T) {
		t.Run("valid token", func(t *testing.T) {
			m := newManager(t, Config{})

			issued, err := m.Issue(companyID, email, 15*time.Minute)
			require.NoError(t, err)

			claims, err := m.Parse(issued.Value)
			require.NoError(t, err, "valid token should be parsed without errors")

			parsedID, err := claims.CompanyID()
			require.NoError(t, err)
			require.Equal(t, companyID, parsedID)
			require.Equal(t, email, claims.Email)
		})

		t.Run("not a token", func(t *testing.T) {
			m := newManager(t, Config{})

			_, err := m.Parse("invalid token")

			require.ErrorIs(t, err, apperrors.ErrTokenInvalid)
		})

		t.Run("expired token", func(t *testing.T) {
			m := newManager(t, Config{})

			// Issue never backdates, so build the expired token by hand
			token := jwt.NewWithClaims(
				jwt.SigningMethodHS256,
				Claims{
					RegisteredClaims: jwt.RegisteredClaims{
						ID:        uuid.NewString(),
						Subject:   companyID.String(),
						IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
					},
					Email: email,
				},
			)
			expired, err := token.SignedString([]byte("test-secret-key"))
			require.NoError(t, err)

			_, err = m.Parse(expired)

			require.ErrorIs(t, err, apperrors.ErrTokenExpired, "token has to become expired")
		})

		t.Run("foreign secret", func(t *testing.T) {
			m := newManager(t, Config{})
			foreign := newManager(t, Config{SecretKey: "another-secret-key"})

			issued, err := foreign.Issue(companyID, email, 15*time.Minute)
			require.NoError(t, err)

			_, err = m.Parse(issued.Value)

			require.ErrorIs(t, err, apperrors.ErrTokenInvalid, "token signed with foreign secret must fail")
		})

		t.Run("not signed token", func(t *testing.T) {
			m := newManager(t, Config{})

			// Create valid but unsigned token
			token := jwt.NewWithClaims(
				jwt.SigningMethodNone,
				Claims{
					RegisteredClaims: jwt.RegisteredClaims{
						ID:        uuid.NewString(),
						Subject:   companyID.String(),
						IssuedAt:  jwt.NewNumericDate(time.Now()),
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
					},
					Email: email,
				},
			)
			unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)

			_, err = m.Parse(unsigned)

			require.ErrorIs(t, err, apperrors.ErrTokenInvalid, "valid token with 'none' alg must fail")
		})
	})
}
