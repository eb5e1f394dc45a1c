package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/models"
)

const (
	// Generic issuance default. Login passes its own much shorter TTL
	defaultTokenTTL      = 24 * time.Hour
	defaultSigningMethod = "HS256"
)

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// CompanyID parses the 'sub' claim back into the company id
func (c Claims) CompanyID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Token manager with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Token lifetime used when Issue is called with ttl <= 0
	TTL time.Duration
}

type TokenManager struct {
	// Secret key to sign tokens
	key string

	// JWT MAC algorithm
	alg jwt.SigningMethod

	// Default token lifetime
	ttl time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.TTL == 0 {
		cfg.TTL = defaultTokenTTL
	}

	alg := jwt.GetSigningMethod(cfg.Alg)
	if alg == nil {
		return nil, fmt.Errorf("unknown signing method: %q", cfg.Alg)
	}

	return &TokenManager{
		key: cfg.SecretKey,
		alg: alg,
		ttl: cfg.TTL,
	}, nil
}

// Issue signs a token for the company. No side effects: the token is
// self-contained and is never persisted
func (m *TokenManager) Issue(companyID uuid.UUID, email string, ttl time.Duration) (models.IssuedToken, error) {
	if ttl <= 0 {
		ttl = m.ttl
	}

	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Subject:   companyID.String(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Email: email,
		},
	)
	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates signature and lifetime.
// Expired tokens return apperrors.ErrTokenExpired, everything else wrong
// with them (bad signature, foreign alg, garbage) returns ErrTokenInvalid
func (m *TokenManager) Parse(tokenString string) (Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return []byte(m.key), nil },
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
	)

	switch {
	case err == nil:
		return *claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return *claims, fmt.Errorf("%w: %w", apperrors.ErrTokenExpired, err)
	default:
		return *claims, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}
}
