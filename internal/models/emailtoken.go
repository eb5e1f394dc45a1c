package models

import (
	"time"

	"github.com/google/uuid"
)

// Email token purposes
const (
	PurposeEmailVerification = "EMAIL_VERIFICATION"
	PurposePasswordReset     = "PASSWORD_RESET"
)

// EmailToken is a single-use token delivered by email.
// Consuming deletes the row, so a token can't be replayed.
type EmailToken struct {
	Token     string
	CompanyID uuid.UUID
	Purpose   string
	CreatedAt time.Time
	ExpiresAt time.Time
}
