package user

import (
	"net/http"
	"strings"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/validators"

	"github.com/gin-gonic/gin"
)

func CheckEmail(c *gin.Context, d *internal.Deps) {
	email := strings.ToLower(c.Param("email"))

	if err := validators.EmailValidator(email); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error(), "email"))
		return
	}

	var count int64
	if err := d.DB.Model(model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":     email,
		"available": count == 0,
	})
}

func CheckUsername(c *gin.Context, d *internal.Deps) {
	username := strings.ToLower(c.Param("username"))

	if err := validators.UsernameValidator(username); err != nil {
		apperr.Respond(c, apperr.Validation(err.Error(), "username"))
		return
	}

	var count int64
	if err := d.DB.Model(model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"username":  username,
		"available": count == 0,
	})
}
