package user

import (
	"errors"
	"net/http"
	"strings"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginBody struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
	RememberMe      bool   `json:"remember_me"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data loginBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.EmailOrUsername == "" || data.Password == "" {
		apperr.Respond(c, apperr.Validation("Email/username and password are required", ""))
		return
	}

	ident := strings.ToLower(data.EmailOrUsername)

	// Unknown account and wrong password both come back as the same
	// error, otherwise the endpoint leaks which emails are registered
	var u model.User
	err := d.DB.Where("email = ? OR username = ?", ident, ident).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.InvalidCredentials())
			return
		}

		apperr.Respond(c, err)

		zap.L().Error("Failed to look up user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	ok, err := d.Argon.VerifyPasswd(data.Password, u.PasswordHash)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to verify password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if !ok {
		apperr.Respond(c, apperr.InvalidCredentials())
		return
	}

	if !u.IsActive {
		apperr.Respond(c, apperr.Authentication("Account is deactivated"))
		return
	}

	pair, _, err := d.Sessions.Create(&u, deviceFromRequest(c), data.RememberMe)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to create session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   u,
		"tokens": tokenResponse(pair),
	})
}
