package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
	"github.com/mercatto/backend/internal/service/auth/tokenmanager"
)

const (
	// Session tokens issued at login live much shorter than the token
	// manager's generic default
	defaultLoginTokenTTL = 2 * time.Hour

	bearerScheme = "Bearer"
)

type Config struct {
	// Hasher to use during login checks
	// BcryptHasher is used if not set
	Hasher PasswordHasher

	// Lifetime of tokens issued at login
	// If not set then default is used
	LoginTokenTTL time.Duration
}

// Auth service: login credential check and bearer token permission check
type Service struct {
	token    *tokenmanager.TokenManager
	hasher   PasswordHasher
	loginTTL time.Duration

	companyRepo repository.CompanyRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, companyRepo repository.CompanyRepo) (*Service, error) {
	if token == nil || companyRepo == nil {
		return nil, errors.New("token manager and company repo must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}

	loginTTL := cfg.LoginTokenTTL
	if loginTTL == 0 {
		loginTTL = defaultLoginTokenTTL
	}

	return &Service{
		token:       token,
		hasher:      hasher,
		loginTTL:    loginTTL,
		companyRepo: companyRepo,
	}, nil
}

// Login checks credentials and issues a session token.
// The login identifier may be an email or a cnpj, the same field carries
// both. "No such company" and "wrong password" are indistinguishable:
// both return apperrors.ErrInvalidCredentials
func (s *Service) Login(ctx context.Context, login string, password string) (models.IssuedToken, error) {
	company, err := s.companyRepo.GetByLogin(ctx, login)
	if err != nil && !errors.Is(err, apperrors.ErrCompanyNotFound) {
		return models.IssuedToken{}, fmt.Errorf("error while looking up company. Err: %w", err)
	}

	// Compare runs even when the lookup found nothing: the empty hash
	// never matches, and the timing stays close to the found case
	if compareErr := s.hasher.Compare(company.PasswordHash, password); err != nil || compareErr != nil {
		return models.IssuedToken{}, apperrors.ErrInvalidCredentials
	}

	token, err := s.token.Issue(company.ID, company.Email, s.loginTTL)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while issuing session token. Err: %w", err)
	}

	return token, nil
}

// Authorize resolves the acting company from an Authorization header
// value and checks it has the required role.
// Expired token, invalid token, unknown company, inactive company and
// wrong role all collapse into apperrors.ErrUnauthorized
func (s *Service) Authorize(ctx context.Context, authorization string, role string) (models.CompanyInfo, error) {
	tokenString, ok := strings.CutPrefix(authorization, bearerScheme+" ")
	if !ok {
		return models.CompanyInfo{}, apperrors.ErrUnauthorized
	}

	claims, err := s.token.Parse(tokenString)
	if err != nil {
		return models.CompanyInfo{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	companyID, err := claims.CompanyID()
	if err != nil {
		return models.CompanyInfo{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	// One lookup keyed on id and role both. Missing company and wrong
	// role produce the same error, so roles can't be enumerated
	company, err := s.companyRepo.GetByIDAndRole(ctx, companyID, role)
	if err != nil {
		return models.CompanyInfo{}, fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, err)
	}

	return models.CompanyInfo{
		ID:        company.ID,
		TradeName: company.TradeName,
		Role:      company.Role,
	}, nil
}
