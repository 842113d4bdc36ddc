package controllers

import (
	"net/http"
	"testing"

	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCookies = utils.CookieOptions{Name: "sb-access-token", RefreshName: "sb-refresh-token"}

func cookieValues(resp *http.Response) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range resp.Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSignIn_SetsCookiesAndReturnsHome(t *testing.T) {
	employee := models.User{ID: uuid.New(), Email: "sam@example.com", Role: models.RoleEmployee}
	accounts := &fakeAccounts{users: map[string]models.User{employee.Email: employee}, password: "correct-horse"}
	ac := NewAuthController(accounts, utils.DefaultAccessTable(), testCookies)

	r := gin.New()
	r.POST("/api/auth/sign-in", ac.SignIn)

	w := send(t, r, http.MethodPost, "/api/auth/sign-in", SignInInput{Email: employee.Email, Password: "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view SessionView
	decode(t, w, &view)
	assert.Equal(t, "/employee", view.Home)
	assert.Equal(t, employee.ID, view.User.ID)

	cookies := cookieValues(w.Result())
	require.Contains(t, cookies, "sb-access-token")
	assert.Equal(t, tokenFor("access", employee.Email), cookies["sb-access-token"].Value)
	assert.True(t, cookies["sb-access-token"].HttpOnly)
	assert.Equal(t, tokenFor("refresh", employee.Email), cookies["sb-refresh-token"].Value)
	assert.NotContains(t, w.Body.String(), tokenFor("access", employee.Email))

	w = send(t, r, http.MethodPost, "/api/auth/sign-in", SignInInput{Email: employee.Email, Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())

	w = send(t, r, http.MethodPost, "/api/auth/sign-in", map[string]string{"email": employee.Email})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUp(t *testing.T) {
	accounts := &fakeAccounts{users: map[string]models.User{}}
	ac := NewAuthController(accounts, utils.DefaultAccessTable(), testCookies)
	r := gin.New()
	r.POST("/api/auth/sign-up", ac.SignUp)

	w := send(t, r, http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view SessionView
	decode(t, w, &view)
	assert.Equal(t, "/client", view.Home)
	assert.Contains(t, cookieValues(w.Result()), "sb-access-token")

	accounts.signUpErr = services.ErrConflict
	w = send(t, r, http.MethodPost, "/api/auth/sign-up", map[string]string{"email": "ada@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSignOutAndMe(t *testing.T) {
	client := models.User{ID: uuid.New(), Email: "ada@example.com", Role: models.RoleClient}
	accounts := &fakeAccounts{users: map[string]models.User{}}
	ac := NewAuthController(accounts, utils.DefaultAccessTable(), testCookies)

	r := gin.New()
	r.Use(signedIn(client))
	r.GET("/api/me", ac.Me)
	r.POST("/api/auth/sign-out", ac.SignOut)

	w := send(t, r, http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view SessionView
	decode(t, w, &view)
	assert.Equal(t, client.Email, view.User.Email)
	assert.Equal(t, "/client", view.Home)
	assert.NotZero(t, view.ExpiresAt)

	w = send(t, r, http.MethodPost, "/api/auth/sign-out", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"tok-" + client.ID.String()}, accounts.signedOut)
	cookies := cookieValues(w.Result())
	require.Contains(t, cookies, "sb-access-token")
	assert.Empty(t, cookies["sb-access-token"].Value)
	assert.Negative(t, cookies["sb-access-token"].MaxAge)
}

func TestMe_WithoutUserIs401(t *testing.T) {
	ac := NewAuthController(&fakeAccounts{}, utils.DefaultAccessTable(), testCookies)
	r := gin.New()
	r.GET("/api/me", ac.Me)

	w := send(t, r, http.MethodGet, "/api/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
