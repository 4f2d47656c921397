package views

import (
	"time"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	OtherName *string `json:"otherName"`
}

type UpdateCustomerRequest struct {
	CustomerID uuid.UUID `json:"customerId" binding:"required"`
	FirstName  *string   `json:"firstName"`
	LastName   *string   `json:"lastName"`
	OtherName  *string   `json:"otherName"`
}

type CustomerResponse struct {
	CustomerID uuid.UUID `json:"customerId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	OtherName  *string   `json:"otherName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
