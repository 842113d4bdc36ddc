package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleClient   Role = "client"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleEmployee:
		return true
	}
	return false
}

// User is the profile row linked to a Supabase auth user. Role decides route access.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	AuthID           uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"auth_id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Phone            string    `json:"phone"`
	Role             Role      `gorm:"type:user_role;not null;default:'client'" json:"role"`
	CloverEmployeeID *string   `json:"clover_employee_id,omitempty"`

	Pets []Pet `gorm:"foreignKey:UserID" json:"pets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins first and last name, falling back to the email.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
