package models

import (
	"time"

	"github.com/google/uuid"
)

type PetSize string

const (
	PetSizeSmall  PetSize = "small"
	PetSizeMedium PetSize = "medium"
	PetSizeLarge  PetSize = "large"
	PetSizeXLarge PetSize = "xlarge"
)

// Valid reports whether s is a known size. Empty is allowed.
func (s PetSize) Valid() bool {
	switch s {
	case "", PetSizeSmall, PetSizeMedium, PetSizeLarge, PetSizeXLarge:
		return true
	}
	return false
}

type Pet struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	Name   string     `gorm:"not null" json:"name"`
	Breed  string     `json:"breed"`
	Size   PetSize    `json:"size"`
	Weight *float64   `gorm:"type:numeric(6,2)" json:"weight,omitempty"` // lbs
	DOB    *time.Time `gorm:"column:dob;type:date" json:"dob,omitempty"`
	Notes  string     `json:"notes"`

	Owner *User `gorm:"foreignKey:UserID" json:"owner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
