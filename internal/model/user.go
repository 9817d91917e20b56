package model

import (
	"time"

	"github.com/google/uuid"
)

// Role: "seller" | "admin" | "customer"
type Role string

const (
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User is a marketplace principal. A seller is a User with RoleSeller.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `gorm:"uniqueIndex;not null"`
	FirstName string    `gorm:"not null"`
	LastName  string
	Role      Role `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Principal is the identity acting on a request, resolved from the access token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

// Owned is implemented by every catalog entity that belongs to a seller.
type Owned interface {
	OwnerID() uuid.UUID
}
