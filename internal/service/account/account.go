package account

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/logger"
	"github.com/mercatto/backend/internal/mailer"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
	"github.com/mercatto/backend/internal/service/auth"
)

// Email tokens expire after this window. The schema default matches
const defaultEmailTokenTTL = 24 * time.Hour

type Config struct {
	// Hasher for new passwords
	// BcryptHasher is used if not set
	Hasher auth.PasswordHasher

	// Lifetime of verification and reset tokens
	// If not set then default is used
	EmailTokenTTL time.Duration

	// Public base URL used inside email links, e.g. https://app.example.com
	BaseURL string
}

// Account service: company signup, email verification and password reset
type Service struct {
	storage repository.Storage
	mail    mailer.Sender
	logger  logger.Logger

	hasher   auth.PasswordHasher
	tokenTTL time.Duration
	baseURL  string
}

func NewService(cfg Config, storage repository.Storage, mail mailer.Sender, l logger.Logger) (*Service, error) {
	if storage == nil || mail == nil {
		return nil, errors.New("storage and mail sender must not be nil")
	}
	if l == nil {
		l = logger.NewNoOp()
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = auth.BcryptHasher{}
	}

	tokenTTL := cfg.EmailTokenTTL
	if tokenTTL == 0 {
		tokenTTL = defaultEmailTokenTTL
	}

	return &Service{
		storage:  storage,
		mail:     mail,
		logger:   l,
		hasher:   hasher,
		tokenTTL: tokenTTL,
		baseURL:  cfg.BaseURL,
	}, nil
}

type RegisterParams struct {
	CNPJ      string
	Email     string
	LegalName string
	TradeName string
	Password  string
	Address   models.Address
	Contact   models.Contact
}

// Register creates an inactive CLIENT company and sends the activation
// email. Duplicate cnpj or email returns apperrors.ErrCompanyAlreadyExists.
// A delivery failure propagates: an account nobody can activate is no
// better than no account
func (s *Service) Register(ctx context.Context, arg RegisterParams) (models.Company, error) {
	hash, err := s.hasher.Hash(arg.Password)
	if err != nil {
		return models.Company{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	company, err := s.storage.Company().Create(ctx, repository.CreateCompanyParams{
		CNPJ:         arg.CNPJ,
		Email:        arg.Email,
		LegalName:    arg.LegalName,
		TradeName:    arg.TradeName,
		PasswordHash: hash,
		Role:         models.RoleClient,
		Active:       false,
		Address:      arg.Address,
		Contact:      arg.Contact,
	})
	if err != nil {
		return models.Company{}, err
	}

	err = s.issueEmailToken(ctx, company, models.PurposeEmailVerification)
	if err != nil {
		s.logger.Error("verification email not sent", "company_id", company.ID, "error", err.Error())
		return company, err
	}

	return company, nil
}

// VerifyEmail consumes a verification token and activates the company
func (s *Service) VerifyEmail(ctx context.Context, token string, companyID uuid.UUID) error {
	return s.storage.InTx(ctx, func(tx repository.Storage) error {
		consumed, err := tx.EmailToken().Consume(ctx, token, companyID, models.PurposeEmailVerification)
		if err != nil {
			return err
		}
		if !consumed {
			return apperrors.ErrEmailTokenNotFound
		}

		return tx.Company().SetActive(ctx, companyID, true)
	})
}

// ForgotPassword issues a reset token and mails the reset link.
// An unknown login succeeds silently: the caller must not be able to
// probe which accounts exist
func (s *Service) ForgotPassword(ctx context.Context, login string) error {
	company, err := s.storage.Company().GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperrors.ErrCompanyNotFound) {
			s.logger.Debug("password reset requested for unknown login")
			return nil
		}
		return fmt.Errorf("error while looking up company. Err: %w", err)
	}

	return s.issueEmailToken(ctx, company, models.PurposePasswordReset)
}

// ResetPassword consumes a reset token and stores the new password hash.
// Consumption and update run in one transaction: of two concurrent
// submissions of the same token at most one can succeed
func (s *Service) ResetPassword(ctx context.Context, token string, companyID uuid.UUID, newPassword string) error {
	exists, err := s.storage.EmailToken().Exists(ctx, token, companyID, models.PurposePasswordReset)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrEmailTokenNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	return s.storage.InTx(ctx, func(tx repository.Storage) error {
		consumed, err := tx.EmailToken().Consume(ctx, token, companyID, models.PurposePasswordReset)
		if err != nil {
			return err
		}
		if !consumed {
			return apperrors.ErrEmailTokenNotFound
		}

		return tx.Company().UpdatePasswordHash(ctx, companyID, hash)
	})
}

// SetCompanyActive is the administrative activate/deactivate toggle
func (s *Service) SetCompanyActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.storage.Company().SetActive(ctx, id, active)
}

func (s *Service) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.storage.Company().List(ctx)
}

// issueEmailToken generates, persists and delivers a single-use token
func (s *Service) issueEmailToken(ctx context.Context, company models.Company, purpose string) error {
	token, err := auth.GenerateEmailToken()
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.storage.EmailToken().Create(ctx, models.EmailToken{
		Token:     token,
		CompanyID: company.ID,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	})
	if err != nil {
		return err
	}

	var subject, body string
	switch purpose {
	case models.PurposeEmailVerification:
		subject = mailer.SubjectEmailVerification
		body, err = mailer.VerificationEmail(s.link("/verify-email", token, company.ID))
	case models.PurposePasswordReset:
		subject = mailer.SubjectPasswordReset
		body, err = mailer.PasswordResetEmail(s.link("/reset-password", token, company.ID))
	default:
		return fmt.Errorf("unknown email token purpose: %q", purpose)
	}
	if err != nil {
		return err
	}

	return s.mail.Send(ctx, company.Email, subject, body)
}

func (s *Service) link(path string, token string, companyID uuid.UUID) string {
	query := url.Values{}
	query.Set("token", token)
	query.Set("company_id", companyID.String())
	return s.baseURL + path + "?" + query.Encode()
}
