// Package user contains the account, credential and session endpoints
package user

import (
	"studysprint/study-api/internal/model"
	"studysprint/study-api/internal/service"

	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) *model.User {
	return c.MustGet("user").(*model.User)
}

// deviceFromRequest pulls the session metadata out of the request.
// The session manager treats all of it as opaque strings
func deviceFromRequest(c *gin.Context) service.Device {
	return service.Device{
		Info:      c.GetHeader("X-Device-Info"),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func tokenResponse(pair *service.TokenPair) gin.H {
	return gin.H{
		"access_token":       pair.AccessToken,
		"refresh_token":      pair.RefreshToken,
		"token_type":         "bearer",
		"expires_at":         pair.ExpiresAt,
		"refresh_expires_at": pair.RefreshExpiresAt,
	}
}
