package models

import (
	"time"

	"github.com/google/uuid"
)

// Company roles, closed set
const (
	RoleAdmin  = "ADMIN"
	RoleSeller = "SELLER"
	RoleClient = "CLIENT"
)

type Company struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CNPJ         string
	Email        string
	LegalName    string
	TradeName    string
	PasswordHash string
	Role         string
	Active       bool
}

// CompanyInfo is the minimal descriptor returned by the permission check.
// Enough for downstream authorization decisions, nothing sensitive.
type CompanyInfo struct {
	ID        uuid.UUID
	TradeName string
	Role      string
}

type Address struct {
	ID         int64
	CompanyID  uuid.UUID
	PostalCode string
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
}

type Contact struct {
	ID        int64
	CompanyID uuid.UUID
	Name      string
	Phone     string
	Mobile    string
	Email     string
}
