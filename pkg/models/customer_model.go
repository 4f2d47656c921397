package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer maps to table `customers`
type Customer struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	OtherName *string
	CreatedAt time.Time
	UpdatedAt *time.Time
	Deleted   bool
	DeletedAt *time.Time
}
