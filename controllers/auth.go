package controllers

import (
	"context"
	"net/http"

	"groompro-backend/models"
	"groompro-backend/services"
	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
)

// Accounts is the account service as seen by the handlers.
type Accounts interface {
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignUp(ctx context.Context, in services.NewAccount) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string)
	Customers(ctx context.Context) ([]models.User, error)
}

type SignInInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SessionView is what the browser learns about a fresh session. Tokens stay in
// HttpOnly cookies.
type SessionView struct {
	User      models.User `json:"user"`
	Home      string      `json:"home"`
	ExpiresAt int64       `json:"expires_at"`
}

type AuthController struct {
	accounts Accounts
	table    *utils.AccessTable
	cookies  utils.CookieOptions
}

func NewAuthController(accounts Accounts, table *utils.AccessTable, cookies utils.CookieOptions) *AuthController {
	return &AuthController{accounts: accounts, table: table, cookies: cookies}
}

func (ac *AuthController) SignIn(c *gin.Context) {
	var input SignInInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session, err := ac.accounts.SignIn(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondWithServiceError(c, err, "Failed to sign in")
		return
	}
	ac.startSession(c, http.StatusOK, session)
}

// SignUp creates a client account and signs it in.
func (ac *AuthController) SignUp(c *gin.Context) {
	var input services.NewAccount
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	session, err := ac.accounts.SignUp(c.Request.Context(), input)
	if err != nil {
		respondWithServiceError(c, err, "Failed to create account")
		return
	}
	ac.startSession(c, http.StatusCreated, session)
}

func (ac *AuthController) SignOut(c *gin.Context) {
	if session, ok := utils.CurrentSession(c); ok {
		ac.accounts.SignOut(c.Request.Context(), session.AccessToken)
	}
	utils.ClearSessionCookies(c, ac.cookies)
	utils.RespondWithData(c, http.StatusOK, gin.H{"home": ac.table.SignIn})
}

func (ac *AuthController) startSession(c *gin.Context, status int, session *models.Session) {
	utils.SetSessionCookies(c, ac.cookies, session)
	utils.RespondWithData(c, status, SessionView{
		User:      session.User,
		Home:      ac.table.Home(session.User.Role),
		ExpiresAt: session.ExpiresAt.Unix(),
	})
}
