package controllers

import (
	"net/http"

	"groompro-backend/utils"

	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	accounts Accounts
}

func NewCustomerController(accounts Accounts) *CustomerController {
	return &CustomerController{accounts: accounts}
}

// GetCustomers lists client accounts with their pets.
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	customers, err := cc.accounts.Customers(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to fetch customers")
		return
	}
	utils.RespondWithData(c, http.StatusOK, customers)
}
