package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"groompro-backend/models"
	"groompro-backend/supabase"
	"groompro-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const minPasswordLength = 8

// NewAccount describes a user to provision in Supabase and the users table.
type NewAccount struct {
	Email            string  `json:"email" binding:"required"`
	Password         string  `json:"password" binding:"required"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Phone            string  `json:"phone"`
	CloverEmployeeID *string `json:"clover_employee_id"`
}

func (a *NewAccount) normalize() error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if len(a.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	if a.Phone != "" {
		if !utils.ValidatePhone(a.Phone) {
			return fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
		}
		a.Phone = utils.NormalizePhone(a.Phone)
	}
	if a.CloverEmployeeID != nil && strings.TrimSpace(*a.CloverEmployeeID) == "" {
		a.CloverEmployeeID = nil
	}
	return nil
}

// AccountService handles sign-in, sign-up, sign-out and customer listings.
type AccountService struct {
	auth     AuthProvider
	users    UserRepository
	sessions *SessionService
}

func NewAccountService(auth AuthProvider, users UserRepository, sessions *SessionService) *AccountService {
	return &AccountService{auth: auth, users: users, sessions: sessions}
}

// SignIn exchanges credentials for a session.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	tok, err := s.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		if supabase.IsBadRequest(err) || supabase.IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return s.sessions.SessionFromToken(ctx, tok)
}

// SignUp provisions a client account and signs it in.
func (s *AccountService) SignUp(ctx context.Context, in NewAccount) (*models.Session, error) {
	in.CloverEmployeeID = nil
	if _, err := provisionUser(ctx, s.auth, s.users, in, models.RoleClient); err != nil {
		return nil, err
	}
	return s.SignIn(ctx, in.Email, in.Password)
}

// SignOut revokes the session at Supabase. Failures are logged, not returned.
func (s *AccountService) SignOut(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	s.sessions.Forget(ctx, accessToken)
	if err := s.auth.SignOut(ctx, accessToken); err != nil {
		logrus.WithError(err).Warn("Supabase sign-out failed")
	}
}

// Customers lists client accounts with their pets.
func (s *AccountService) Customers(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRole(ctx, models.RoleClient, true)
}

// provisionUser creates the Supabase auth user and then the profile row. If the
// profile insert fails the auth user is deleted again.
func provisionUser(ctx context.Context, auth AuthProvider, users UserRepository, in NewAccount, role models.Role) (*models.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	authUser, err := auth.AdminCreateUser(ctx, supabase.AdminUserParams{
		Email:        in.Email,
		Password:     in.Password,
		Phone:        in.Phone,
		EmailConfirm: true,
		UserMetadata: map[string]any{
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"role":       string(role),
		},
	})
	if err != nil {
		if supabase.IsBadRequest(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		if errors.Is(err, supabase.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("create auth user: %w", err)
	}

	authID, err := uuid.Parse(authUser.ID)
	if err != nil {
		rollbackAuthUser(ctx, auth, authUser.ID)
		return nil, fmt.Errorf("create auth user: malformed id %q", authUser.ID)
	}

	user := &models.User{
		ID:               uuid.New(),
		AuthID:           authID,
		Email:            in.Email,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Phone:            in.Phone,
		Role:             role,
		CloverEmployeeID: in.CloverEmployeeID,
	}
	if err := users.Create(ctx, user); err != nil {
		rollbackAuthUser(ctx, auth, authUser.ID)
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidInput) {
			return nil, err
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    role,
	}).Info("Account provisioned")
	return user, nil
}

func rollbackAuthUser(ctx context.Context, auth AuthProvider, authID string) {
	// The request context may already be cancelled; cleanup still has to run.
	ctx = context.WithoutCancel(ctx)
	if err := auth.AdminDeleteUser(ctx, authID); err != nil {
		logrus.WithFields(logrus.Fields{
			"auth_id": authID,
			"error":   err.Error(),
		}).Error("Failed to roll back auth user")
	}
}
