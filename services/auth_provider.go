package services

import (
	"context"
	"time"

	"groompro-backend/clover"
	"groompro-backend/supabase"
)

// AuthProvider is the slice of the Supabase auth API the services use.
type AuthProvider interface {
	VerifyToken(ctx context.Context, accessToken string) (*supabase.AuthUser, time.Time, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.TokenResponse, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.TokenResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	AdminCreateUser(ctx context.Context, params supabase.AdminUserParams) (*supabase.AuthUser, error)
	AdminDeleteUser(ctx context.Context, id string) error
}

// PointOfSale is the slice of the Clover API the services use.
type PointOfSale interface {
	Enabled() bool
	Items(ctx context.Context) ([]clover.Item, error)
	Item(ctx context.Context, id string) (*clover.Item, error)
	Groomers(ctx context.Context) ([]clover.Employee, error)
	Availability(ctx context.Context, employeeID string, day time.Time, hours clover.Hours, booked []clover.Window) ([]clover.Window, error)
	CreateOrder(ctx context.Context, p clover.OrderParams) (*clover.Order, error)
	AddLineItem(ctx context.Context, orderID, itemID string) error
	UpdateOrder(ctx context.Context, orderID string, p clover.OrderParams) (*clover.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error
}

var (
	_ AuthProvider = (*supabase.Client)(nil)
	_ PointOfSale  = (*clover.Client)(nil)
)
