package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"groompro-backend/models"
	"groompro-backend/supabase"
	"groompro-backend/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// SessionService resolves request tokens into a session with the caller's profile.
// It implements utils.SessionResolver.
type SessionService struct {
	auth     AuthProvider
	users    UserRepository
	cache    utils.Cache
	cacheTTL time.Duration
}

func NewSessionService(auth AuthProvider, users UserRepository, cache utils.Cache, cacheTTL time.Duration) *SessionService {
	return &SessionService{auth: auth, users: users, cache: cache, cacheTTL: cacheTTL}
}

var _ utils.SessionResolver = (*SessionService)(nil)

// Resolve validates accessToken. When it is missing or rejected and a refresh token
// is present, the session is refreshed once and marked Refreshed.
func (s *SessionService) Resolve(ctx context.Context, accessToken, refreshToken string) (*models.Session, error) {
	if accessToken != "" {
		if session, ok := s.cached(ctx, accessToken); ok {
			return session, nil
		}

		authUser, expiresAt, err := s.auth.VerifyToken(ctx, accessToken)
		switch {
		case err == nil:
			session, err := s.sessionFor(ctx, authUser, accessToken, refreshToken, expiresAt)
			if err != nil {
				return nil, err
			}
			s.store(ctx, session)
			return session, nil
		case !supabase.IsUnauthorized(err):
			return nil, fmt.Errorf("verify token: %w", err)
		}
	}

	if refreshToken == "" {
		return nil, ErrUnauthenticated
	}

	tok, err := s.auth.RefreshSession(ctx, refreshToken)
	if err != nil {
		if supabase.IsUnauthorized(err) || supabase.IsBadRequest(err) {
			return nil, fmt.Errorf("%w: refresh rejected", ErrUnauthenticated)
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	session, err := s.sessionFor(ctx, &tok.User, tok.AccessToken, tok.RefreshToken, tok.Expiry())
	if err != nil {
		return nil, err
	}
	s.store(ctx, session)
	session.Refreshed = true
	return session, nil
}

// SessionFromToken builds a session from a fresh token grant, e.g. after sign-in.
func (s *SessionService) SessionFromToken(ctx context.Context, tok *supabase.TokenResponse) (*models.Session, error) {
	return s.sessionFor(ctx, &tok.User, tok.AccessToken, tok.RefreshToken, tok.Expiry())
}

// Forget drops the cached session for accessToken.
func (s *SessionService) Forget(ctx context.Context, accessToken string) {
	if s.cache == nil || accessToken == "" {
		return
	}
	if err := s.cache.Delete(ctx, sessionCacheKey(accessToken)); err != nil {
		logrus.WithError(err).Debug("session cache delete failed")
	}
}

func (s *SessionService) sessionFor(ctx context.Context, authUser *supabase.AuthUser, accessToken, refreshToken string, expiresAt time.Time) (*models.Session, error) {
	authID, err := uuid.Parse(authUser.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed auth user id", ErrUnauthenticated)
	}
	user, err := s.users.FindByAuthID(ctx, authID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no profile for auth user %s", ErrUnauthenticated, authID)
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &models.Session{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *SessionService) cached(ctx context.Context, accessToken string) (*models.Session, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	var session models.Session
	ok, err := s.cache.Get(ctx, sessionCacheKey(accessToken), &session)
	if err != nil {
		logrus.WithError(err).Debug("session cache read failed")
		return nil, false
	}
	if !ok || !time.Now().Before(session.ExpiresAt) {
		return nil, false
	}
	return &session, true
}

func (s *SessionService) store(ctx context.Context, session *models.Session) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	ttl := s.cacheTTL
	if left := time.Until(session.ExpiresAt); left < ttl {
		ttl = left
	}
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, sessionCacheKey(session.AccessToken), session, ttl); err != nil {
		logrus.WithError(err).Debug("session cache write failed")
	}
}

// sessionCacheKey hashes the token so raw tokens never land in Redis.
func sessionCacheKey(accessToken string) string {
	sum := blake2b.Sum256([]byte(accessToken))
	return "session:" + hex.EncodeToString(sum[:])
}
