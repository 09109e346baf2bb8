package user

import (
	"errors"
	"net/http"
	"strings"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type registerBody struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data registerBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error(), "email"))
		return
	}

	if err := validators.UsernameValidator(data.Username); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error(), "username"))
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error(), "password"))
		return
	}

	if data.ConfirmPassword != data.Password {
		apperr.Respond(c, apperr.Validation("Passwords do not match", "confirm_password"))
		return
	}

	email := strings.ToLower(data.Email)
	username := strings.ToLower(data.Username)

	var count int64
	if err := d.DB.Model(model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		apperr.Respond(c, err)
		return
	}
	if count > 0 {
		apperr.Respond(c, apperr.Duplicate("User", "email"))
		return
	}

	if err := d.DB.Model(model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		apperr.Respond(c, err)
		return
	}
	if count > 0 {
		apperr.Respond(c, apperr.Duplicate("User", "username"))
		return
	}

	hash, err := d.Argon.GenerateFromPassword(data.Password)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to hash password", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	newUser := &model.User{
		Email:            email,
		Username:         username,
		PasswordHash:     hash,
		FullName:         strings.TrimSpace(data.FullName),
		IsActive:         true,
		IsVerified:       false,
		SubscriptionTier: "free",
	}

	// User and preferences land together or not at all
	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newUser).Error; err != nil {
			return err
		}

		return tx.Create(model.DefaultPreferences(newUser.ID)).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			apperr.Respond(c, apperr.Duplicate("User", "email"))
			return
		}

		apperr.Respond(c, err)

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	pair, _, err := d.Sessions.Create(newUser, deviceFromRequest(c), false)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to create session", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   newUser,
		"tokens": tokenResponse(pair),
	})
}
