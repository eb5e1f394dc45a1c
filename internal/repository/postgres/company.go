package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mercatto/backend/internal/apperrors"
	"github.com/mercatto/backend/internal/models"
	"github.com/mercatto/backend/internal/repository"
)

type CompanyRepo struct {
	DB DBTX
}

const createCompany = `-- name: CreateCompany
INSERT INTO companies (id, cnpj, email, legal_name, trade_name, password_hash, role, active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at, cnpj, email, legal_name, trade_name, password_hash, role, active
`

const createAddress = `-- name: CreateAddress
INSERT INTO addresses (company_id, postal_code, street, number, complement, district, city, state)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const createContact = `-- name: CreateContact
INSERT INTO contacts (company_id, name, phone, mobile, email)
VALUES ($1, $2, $3, $4, $5)
`

// Create inserts company, first address and first contact in one transaction
func (r *CompanyRepo) Create(ctx context.Context, arg repository.CreateCompanyParams) (models.Company, error) {
	var company models.Company

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return company, fmt.Errorf("db tx error: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, _ := tx.Query(ctx, createCompany,
		uuid.New(), arg.CNPJ, arg.Email, arg.LegalName, arg.TradeName, arg.PasswordHash, arg.Role, arg.Active)
	company, err = pgx.CollectOneRow(rows, rowToCompany)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return company, apperrors.ErrCompanyAlreadyExists
		}
		return company, fmt.Errorf("db error: %w", err)
	}

	a := arg.Address
	_, err = tx.Exec(ctx, createAddress,
		company.ID, a.PostalCode, a.Street, a.Number, a.Complement, a.District, a.City, a.State)
	if err != nil {
		return company, fmt.Errorf("db error: %w", err)
	}

	c := arg.Contact
	_, err = tx.Exec(ctx, createContact, company.ID, c.Name, c.Phone, c.Mobile, c.Email)
	if err != nil {
		return company, fmt.Errorf("db error: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return company, fmt.Errorf("db tx error: %w", err)
	}

	return company, nil
}

const getCompanyByLogin = `-- name: GetCompanyByLogin
SELECT id, created_at, updated_at, cnpj, email, legal_name, trade_name, password_hash, role, active
FROM companies
WHERE email = $1 OR cnpj = $1
`

func (r *CompanyRepo) GetByLogin(ctx context.Context, login string) (models.Company, error) {
	rows, _ := r.DB.Query(ctx, getCompanyByLogin, login)
	company, err := pgx.CollectOneRow(rows, rowToCompany)

	switch {
	case err == nil:
		return company, nil
	case errors.Is(err, pgx.ErrNoRows):
		return company, apperrors.ErrCompanyNotFound
	default:
		return company, fmt.Errorf("db error: %w", err)
	}
}

const getCompanyByID = `-- name: GetCompanyByID
SELECT id, created_at, updated_at, cnpj, email, legal_name, trade_name, password_hash, role, active
FROM companies
WHERE id = $1
`

func (r *CompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Company, error) {
	rows, _ := r.DB.Query(ctx, getCompanyByID, id)
	company, err := pgx.CollectOneRow(rows, rowToCompany)

	switch {
	case err == nil:
		return company, nil
	case errors.Is(err, pgx.ErrNoRows):
		return company, apperrors.ErrCompanyNotFound
	default:
		return company, fmt.Errorf("db error: %w", err)
	}
}

const getCompanyByIDAndRole = `-- name: GetCompanyByIDAndRole
SELECT id, created_at, updated_at, cnpj, email, legal_name, trade_name, password_hash, role, active
FROM companies
WHERE id = $1 AND role = $2 AND active
`

// GetByIDAndRole keys the lookup on id and role at once.
// A wrong role is not told apart from a missing company
func (r *CompanyRepo) GetByIDAndRole(ctx context.Context, id uuid.UUID, role string) (models.Company, error) {
	rows, _ := r.DB.Query(ctx, getCompanyByIDAndRole, id, role)
	company, err := pgx.CollectOneRow(rows, rowToCompany)

	switch {
	case err == nil:
		return company, nil
	case errors.Is(err, pgx.ErrNoRows):
		return company, apperrors.ErrCompanyNotFound
	default:
		return company, fmt.Errorf("db error: %w", err)
	}
}

const updatePasswordHash = `-- name: UpdatePasswordHash
UPDATE companies
SET password_hash = $2, updated_at = now()
WHERE id = $1
`

func (r *CompanyRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.DB.Exec(ctx, updatePasswordHash, id, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

const setCompanyActive = `-- name: SetCompanyActive
UPDATE companies
SET active = $2, updated_at = now()
WHERE id = $1
`

func (r *CompanyRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.DB.Exec(ctx, setCompanyActive, id, active)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

const listCompanies = `-- name: ListCompanies
SELECT id, created_at, updated_at, cnpj, email, legal_name, trade_name, password_hash, role, active
FROM companies
ORDER BY created_at DESC
`

func (r *CompanyRepo) List(ctx context.Context) ([]models.Company, error) {
	rows, _ := r.DB.Query(ctx, listCompanies)
	companies, err := pgx.CollectRows(rows, rowToCompany)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return companies, nil
}

func rowToCompany(row pgx.CollectableRow) (models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.CNPJ, &c.Email,
		&c.LegalName, &c.TradeName, &c.PasswordHash, &c.Role, &c.Active)
	return c, err
}
