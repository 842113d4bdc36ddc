package services

import (
	"context"
	"fmt"

	"groompro-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StaffMember is an employee profile joined with its Clover employee record.
type StaffMember struct {
	models.User
	CloverName string `json:"clover_name,omitempty"`
	IsGroomer  bool   `json:"is_groomer"`
}

type StaffService struct {
	auth  AuthProvider
	users UserRepository
	pos   PointOfSale
}

func NewStaffService(auth AuthProvider, users UserRepository, pos PointOfSale) *StaffService {
	return &StaffService{auth: auth, users: users, pos: pos}
}

// List returns every employee. Clover groomer data is attached when reachable.
func (s *StaffService) List(ctx context.Context) ([]StaffMember, error) {
	users, err := s.users.ListByRole(ctx, models.RoleEmployee, false)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	groomers := map[string]string{}
	if s.pos != nil && s.pos.Enabled() {
		list, err := s.pos.Groomers(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Failed to load Clover groomers for staff list")
		}
		for _, g := range list {
			groomers[g.ID] = g.Name
		}
	}

	out := make([]StaffMember, 0, len(users))
	for _, u := range users {
		m := StaffMember{User: u}
		if u.CloverEmployeeID != nil {
			m.CloverName, m.IsGroomer = groomers[*u.CloverEmployeeID]
		}
		out = append(out, m)
	}
	return out, nil
}

// Create provisions an employee. The auth user is rolled back if the profile
// insert fails.
func (s *StaffService) Create(ctx context.Context, in NewAccount) (*models.User, error) {
	return provisionUser(ctx, s.auth, s.users, in, models.RoleEmployee)
}

// Delete removes an employee profile and then its auth user.
func (s *StaffService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.RoleEmployee {
		return ErrNotFound
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.auth.AdminDeleteUser(ctx, user.AuthID.String()); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": id,
			"auth_id": user.AuthID,
			"error":   err.Error(),
		}).Error("Staff profile deleted but auth user remains")
	}
	return nil
}
