// utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the JSON shape every API handler responds with.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RespondWithError aborts the request with {success:false, error}.
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: message})
}

// RespondWithData writes {success:true, data}.
func RespondWithData(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}
