package user

import (
	"net/http"
	"strings"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	if err := d.DB.Preload("Preferences").First(u, "id = ?", u.ID).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to fetch user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}

type updateBody struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
}

func UserUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	u := currentUser(c)

	var data updateBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	updates := map[string]any{}

	if data.Email != nil {
		email := strings.ToLower(*data.Email)

		if err := validators.EmailValidator(email); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "email"))
			return
		}

		if email != u.Email {
			var count int64
			if err := d.DB.Model(model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				apperr.Respond(c, err)
				return
			}
			if count > 0 {
				apperr.Respond(c, apperr.Duplicate("User", "email"))
				return
			}

			updates["email"] = email
			// The new address hasn't been verified yet
			updates["is_verified"] = false
		}
	}

	if data.Username != nil {
		username := strings.ToLower(*data.Username)

		if err := validators.UsernameValidator(username); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "username"))
			return
		}

		if username != u.Username {
			var count int64
			if err := d.DB.Model(model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
				apperr.Respond(c, err)
				return
			}
			if count > 0 {
				apperr.Respond(c, apperr.Duplicate("User", "username"))
				return
			}

			updates["username"] = username
		}
	}

	if data.FullName != nil {
		name := strings.TrimSpace(*data.FullName)
		if len(name) > 255 {
			apperr.Respond(c, apperr.Validation("Full name must be 255 characters or less", "full_name"))
			return
		}

		updates["full_name"] = name
	}

	if len(updates) > 0 {
		if err := d.DB.Model(u).Updates(updates).Error; err != nil {
			apperr.Respond(c, err)

			zap.L().Error("Failed to update user", zap.Error(err), zap.String("requestID", requestID))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}
