package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          int64
	Code        string
	Name        string
	Description string
	CategoryID  int64
	BasePrice   decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Kit struct {
	ID          int64
	Code        string
	Name        string
	Description string
	TotalPrice  decimal.Decimal
	Active      bool
	Items       []KitItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type KitItem struct {
	ProductID int64
	Quantity  int32
}
