package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mercatto/backend/internal/models"
)

type EmailTokenRepo struct {
	DB DBTX
}

const createEmailToken = `-- name: CreateEmailToken
INSERT INTO email_tokens (token, company_id, purpose, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)
`

func (r *EmailTokenRepo) Create(ctx context.Context, token models.EmailToken) error {
	_, err := r.DB.Exec(ctx, createEmailToken,
		token.Token, token.CompanyID, token.Purpose, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const emailTokenExists = `-- name: EmailTokenExists
SELECT EXISTS (
    SELECT 1 FROM email_tokens
    WHERE token = $1 AND company_id = $2 AND purpose = $3 AND expires_at > now()
)
`

func (r *EmailTokenRepo) Exists(ctx context.Context, token string, companyID uuid.UUID, purpose string) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(ctx, emailTokenExists, token, companyID, purpose).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

const consumeEmailToken = `-- name: ConsumeEmailToken
DELETE FROM email_tokens
WHERE token = $1 AND company_id = $2 AND purpose = $3 AND expires_at > now()
`

// Consume deletes the token in a single statement and reports whether a
// row went away. Two concurrent submissions of the same token can't both
// see RowsAffected == 1
func (r *EmailTokenRepo) Consume(ctx context.Context, token string, companyID uuid.UUID, purpose string) (bool, error) {
	tag, err := r.DB.Exec(ctx, consumeEmailToken, token, companyID, purpose)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
