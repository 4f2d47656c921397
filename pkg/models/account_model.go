package models

import (
	"time"

	"github.com/google/uuid"
)

// Account maps to table `accounts`. CustomerID is a weak reference owned by
// customer-api; it is validated remotely, never joined.
type Account struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Iban       string
	BicSwift   string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	Deleted    bool
	DeletedAt  *time.Time
}
