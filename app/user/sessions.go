package user

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func UserSessions(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	sessions, err := d.Sessions.List(u.ID)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to list sessions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func UserSessionRevoke(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid session id", "id"))
		return
	}

	affected, err := d.Sessions.RevokeByID(sessionID, u.ID)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to revoke session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !affected {
		apperr.Respond(c, apperr.NotFound("Session", sessionID.String()))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"revoked":   true,
		"requestID": requestID,
	})
}
