package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Blocking reports whether an appointment in this status occupies the groomer's time.
func (s AppointmentStatus) Blocking() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Appointment is a booked grooming visit backed by a Clover order.
type Appointment struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OrderID        *string           `json:"order_id"`
	UserID         uuid.UUID         `gorm:"type:uuid;index;not null" json:"user_id"`
	PetID          uuid.UUID         `gorm:"type:uuid;index;not null" json:"pet_id"`
	ServiceItemIDs StringList        `gorm:"type:jsonb" json:"service_item_ids"`
	ServiceNames   StringList        `gorm:"type:jsonb" json:"service_names"`
	TotalPrice     int64             `json:"total_price"` // cents
	Status         AppointmentStatus `gorm:"type:appointment_status;default:'scheduled'" json:"status"`
	ScheduledAt    time.Time         `gorm:"not null" json:"scheduled_at"`
	EmployeeID     string            `json:"employee_id"`
	Duration       int               `gorm:"default:60" json:"duration"` // minutes
	Notes          string            `json:"notes"`

	User *User `gorm:"foreignKey:UserID" json:"customer,omitempty"`
	Pet  *Pet  `gorm:"foreignKey:PetID" json:"pet,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EndsAt is the scheduled start plus the duration.
func (a Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.Duration) * time.Minute)
}

// StringList is stored as a jsonb array.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, (*[]string)(s))
}
