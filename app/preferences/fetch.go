// Package preferences contains the per-user settings endpoints
package preferences

import (
	"errors"
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// loadOrCreate fetches the user's preferences row, creating it with
// defaults on first touch
func loadOrCreate(db *gorm.DB, userID uuid.UUID) (*model.Preferences, error) {
	var prefs model.Preferences

	err := db.Where("user_id = ?", userID).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.DefaultPreferences(userID)
	if err := db.Create(fresh).Error; err != nil {
		return nil, err
	}

	return fresh, nil
}

func PreferencesFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	prefs, err := loadOrCreate(d.DB, userID)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to fetch preferences", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
