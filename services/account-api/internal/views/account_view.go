package views

import (
	"github.com/google/uuid"
)

type CreateAccountRequest struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	Iban       string    `json:"iban" binding:"required"`
	BicSwift   string    `json:"bicSwift" binding:"required"`
}

type UpdateAccountRequest struct {
	AccountID uuid.UUID `json:"accountId" binding:"required"`
	Iban      *string   `json:"iban"`
	BicSwift  *string   `json:"bicSwift"`
}

// AccountResponse is the public projection; audit fields stay internal.
type AccountResponse struct {
	AccountID  uuid.UUID `json:"accountId"`
	CustomerID uuid.UUID `json:"customerId"`
	Iban       string    `json:"iban"`
	BicSwift   string    `json:"bicSwift"`
}
