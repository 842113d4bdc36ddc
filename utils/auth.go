// utils/auth.go
package utils

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"groompro-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	userContextKey    = "user"
	sessionContextKey = "session"

	refreshCookieMaxAge = 30 * 24 * 3600
)

// SessionResolver validates tokens against the auth provider and loads the profile.
type SessionResolver interface {
	Resolve(ctx context.Context, accessToken, refreshToken string) (*models.Session, error)
}

type CookieOptions struct {
	Name        string
	RefreshName string
	Secure      bool
}

// SessionMiddleware authenticates every non-public request and gates it by role.
// Pages redirect (to sign-in, or to the caller's own dashboard); /api routes get
// 401/403 envelopes.
func SessionMiddleware(resolver SessionResolver, table *AccessTable, cookies CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		api := strings.HasPrefix(path, "/api/")

		accessToken, refreshToken := readTokens(c, cookies)

		if table.IsPublic(path) {
			// A signed-in user has no business on the sign-in page.
			if path == table.SignIn && (accessToken != "" || refreshToken != "") {
				if session, err := resolver.Resolve(c.Request.Context(), accessToken, refreshToken); err == nil {
					if session.Refreshed {
						SetSessionCookies(c, cookies, session)
					}
					redirect(c, table.Home(session.User.Role))
					return
				}
			}
			c.Next()
			return
		}

		if accessToken == "" && refreshToken == "" {
			unauthenticated(c, table, api, "Authentication required")
			return
		}

		session, err := resolver.Resolve(c.Request.Context(), accessToken, refreshToken)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"path":  path,
				"error": err.Error(),
			}).Debug("session rejected")
			ClearSessionCookies(c, cookies)
			unauthenticated(c, table, api, "Invalid or expired session")
			return
		}
		if session.Refreshed {
			SetSessionCookies(c, cookies, session)
		}

		c.Set(userContextKey, session.User)
		c.Set(sessionContextKey, session)
		c.Set("userId", session.User.ID.String())

		role := session.User.Role
		if !table.Allowed(role, c.Request.Method, path) {
			home := table.Home(role)
			if api || matchPrefix(home, path) {
				RespondWithError(c, http.StatusForbidden, "Insufficient permissions")
				return
			}
			redirect(c, home)
			return
		}

		c.Next()
	}
}

func readTokens(c *gin.Context, cookies CookieOptions) (string, string) {
	accessToken, _ := c.Cookie(cookies.Name)
	if accessToken == "" {
		header := c.GetHeader("Authorization")
		if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
			accessToken = strings.TrimSpace(header[7:])
		}
	}
	refreshToken, _ := c.Cookie(cookies.RefreshName)
	return accessToken, refreshToken
}

func unauthenticated(c *gin.Context, table *AccessTable, api bool, message string) {
	if api {
		RespondWithError(c, http.StatusUnauthorized, message)
		return
	}
	target := table.SignIn
	if p := c.Request.URL.RequestURI(); p != "/" && p != "" {
		target += "?next=" + url.QueryEscape(p)
	}
	redirect(c, target)
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

// SetSessionCookies writes the access and refresh cookies for session.
func SetSessionCookies(c *gin.Context, cookies CookieOptions, session *models.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookies.Name, session.AccessToken, maxAge, "/", "", cookies.Secure, true)
	if session.RefreshToken != "" {
		c.SetCookie(cookies.RefreshName, session.RefreshToken, refreshCookieMaxAge, "/", "", cookies.Secure, true)
	}
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(c *gin.Context, cookies CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookies.Name, "", -1, "/", "", cookies.Secure, true)
	c.SetCookie(cookies.RefreshName, "", -1, "/", "", cookies.Secure, true)
}

// CurrentUser returns the profile stored by SessionMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}

// CurrentSession returns the session stored by SessionMiddleware.
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*models.Session)
	return s, ok
}
