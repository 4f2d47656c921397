package views

import (
	"github.com/dtb-bank/core-banking/pkg"
	"github.com/google/uuid"
)

type CreateCardRequest struct {
	AccountID uuid.UUID `json:"accountId" binding:"required"`
	CardAlias string    `json:"cardAlias" binding:"required"`
	CardType  string    `json:"cardType" binding:"required,oneof=VIRTUAL PHYSICAL"`
	Pan       string    `json:"pan" binding:"required,numeric,min=12,max=19"`
	Cvv       string    `json:"cvv" binding:"required,numeric,len=3"`
}

// UpdateCardRequest only carries the alias. PAN, CVV, and type are immutable
// once issued.
type UpdateCardRequest struct {
	CardID    uuid.UUID `json:"cardId" binding:"required"`
	CardAlias string    `json:"cardAlias" binding:"required"`
}

// CardResponse carries the PAN and CVV either masked or, when the caller set
// the reveal flag, decrypted in full.
type CardResponse struct {
	CardID    uuid.UUID    `json:"cardId"`
	AccountID uuid.UUID    `json:"accountId"`
	CardAlias string       `json:"cardAlias"`
	CardType  pkg.CardType `json:"cardType"`
	Pan       string       `json:"pan"`
	Cvv       string       `json:"cvv"`
}
