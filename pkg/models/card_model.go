package models

import (
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/google/uuid"
)

// Card maps to table `cards`. Pan and Cvv hold ciphertext; PanSuffix is the
// plaintext last 4 digits kept for indexed lookup.
type Card struct {
	ID        uuid.UUID
	Alias     string
	AccountID uuid.UUID
	CardType  pkg.CardType
	Pan       string
	PanSuffix string
	Cvv       string
	CreatedAt time.Time
	UpdatedAt *time.Time
	Deleted   bool
	DeletedAt *time.Time
}
