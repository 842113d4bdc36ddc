package controllers

import (
	"net/http"

	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
)

// Me returns the signed-in profile and the dashboard it belongs on.
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	session, _ := utils.CurrentSession(c)

	view := SessionView{User: user, Home: ac.table.Home(user.Role)}
	if session != nil {
		view.ExpiresAt = session.ExpiresAt.Unix()
	}
	utils.RespondWithData(c, http.StatusOK, view)
}
