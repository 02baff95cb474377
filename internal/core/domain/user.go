package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStaff    UserRole = "staff"
)

// Actor is the authenticated identity a mutating operation runs as.
// Authorization itself (token verification) happens outside the core;
// the core only checks ownership and role.
type Actor struct {
	UserID uuid.UUID
	Role   UserRole
}

func (a Actor) IsStaff() bool {
	return a.Role == UserRoleStaff
}

type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Password  string
	Role      UserRole
	CreatedAt time.Time
}
