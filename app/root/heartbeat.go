// Package root contains the handlers that don't belong to any module
package root

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Heartbeat(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Validate only runs after the auth middleware, reaching it means the
// token was good
func Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
