package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization level carried by an authenticated principal.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// CanManageOrders reports whether the role may update or delete orders.
func (r Role) CanManageOrders() bool {
	return r == RoleAdmin || r == RoleManager
}

// Country restricts restaurants and users to the supported markets.
type Country string

const (
	CountryIndia   Country = "INDIA"
	CountryAmerica Country = "AMERICA"
)

// Valid reports whether the country is supported.
func (c Country) Valid() bool {
	return c == CountryIndia || c == CountryAmerica
}

// User is an identity reference owned by the external auth subsystem.
// The core only reads its id and role.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      Role      `json:"role" db:"role"`
	Country   Country   `json:"country" db:"country"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AuthContext is the authenticated principal attached to a request by the
// upstream identity layer. Token verification happens there, not here.
type AuthContext struct {
	UserID uuid.UUID
	Role   Role
}
