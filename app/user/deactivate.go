package user

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deactivateBody struct {
	Password string `json:"password"`
	Reason   string `json:"reason"`
}

// UserDeactivate soft-disables the account after re-verifying the
// password. The row is kept, only is_active flips, and every session
// gets revoked
func UserDeactivate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	var data deactivateBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	if data.Password == "" {
		apperr.Respond(c, apperr.Validation("Password is required", "password"))
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.Password, u.PasswordHash)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		apperr.Respond(c, apperr.New(apperr.KindInvalidCredentials, "Password is incorrect"))
		return
	}

	if err := d.DB.Model(u).Update("is_active", false).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to deactivate user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Sessions.RevokeAllForUser(u.ID); err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to revoke sessions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Reason != "" {
		zap.L().Info("Account deactivated", zap.String("userID", u.ID.String()), zap.String("reason", data.Reason))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Account deactivated",
		"requestID": requestID,
	})
}
