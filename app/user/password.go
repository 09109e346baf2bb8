package user

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type passwordChangeBody struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}

// UserChangePassword rotates the password hash and revokes every
// session of the user, forcing a re-login everywhere
func UserChangePassword(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	var data passwordChangeBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	if err := validators.PasswordValidator(data.NewPassword); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error(), "new_password"))
		return
	}

	if data.ConfirmNewPassword != data.NewPassword {
		apperr.Respond(c, apperr.Validation("Passwords do not match", "confirm_new_password"))
		return
	}

	if data.NewPassword == data.CurrentPassword {
		apperr.Respond(c, apperr.Validation("New password must be different from the current one", "new_password"))
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.CurrentPassword, u.PasswordHash)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		apperr.Respond(c, apperr.New(apperr.KindInvalidCredentials, "Current password is incorrect"))
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.NewPassword)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.DB.Model(u).Update("password_hash", hash).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to update password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := d.Sessions.RevokeAllForUser(u.ID); err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to revoke sessions", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Password changed. Please log in again",
		"requestID": requestID,
	})
}
