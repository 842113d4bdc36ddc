package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifyToken validates accessToken and returns its user and expiry. With a JWT
// secret configured the signature is checked locally; otherwise GoTrue is asked.
func (c *Client) VerifyToken(ctx context.Context, accessToken string) (*AuthUser, time.Time, error) {
	if len(c.jwtSecret) > 0 {
		return c.verifyLocal(accessToken)
	}

	user, err := c.GetUser(ctx, accessToken)
	if err != nil {
		return nil, time.Time{}, err
	}
	// The expiry is informational here; read it without verifying.
	expiry := time.Now().Add(time.Hour)
	if tok, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{}); err == nil {
		if exp, err := tok.Claims.GetExpirationTime(); err == nil && exp != nil {
			expiry = exp.Time
		}
	}
	return user, expiry, nil
}

func (c *Client) verifyLocal(accessToken string) (*AuthUser, time.Time, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return c.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return nil, time.Time{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	exp, _ := claims.GetExpirationTime()

	user := &AuthUser{
		ID:           sub,
		Email:        stringClaim(claims, "email"),
		Phone:        stringClaim(claims, "phone"),
		Role:         stringClaim(claims, "role"),
		AppMetadata:  mapClaim(claims, "app_metadata"),
		UserMetadata: mapClaim(claims, "user_metadata"),
	}
	return user, exp.Time, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if s, ok := claims[key].(string); ok {
		return s
	}
	return ""
}

func mapClaim(claims jwt.MapClaims, key string) map[string]any {
	if m, ok := claims[key].(map[string]any); ok {
		return m
	}
	return nil
}
