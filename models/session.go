package models

import "time"

// Session is a validated Supabase session together with the caller's profile.
type Session struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	// Refreshed is set when the access token was exchanged during validation,
	// so the middleware knows to rewrite the cookies.
	Refreshed bool
}
