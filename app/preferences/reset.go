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

// PreferencesReset restores the full default document for every field
func PreferencesReset(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	var prefs model.Preferences
	if err := d.DB.Where("user_id = ?", userID).First(&prefs).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("Preferences", userID.String()))
			return
		}

		apperr.Respond(c, err)
		return
	}

	defaults := model.DefaultPreferences(userID)
	prefs.Theme = defaults.Theme
	prefs.Language = defaults.Language
	prefs.Timezone = defaults.Timezone
	prefs.DefaultStudyDuration = defaults.DefaultStudyDuration
	prefs.DefaultBreakDuration = defaults.DefaultBreakDuration
	prefs.AutoStartTimer = defaults.AutoStartTimer
	prefs.DailyStudyGoalMinutes = defaults.DailyStudyGoalMinutes
	prefs.NotificationSettings = defaults.NotificationSettings
	prefs.StudyPreferences = defaults.StudyPreferences
	prefs.PrivacySettings = defaults.PrivacySettings

	if err := d.DB.Save(&prefs).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to reset preferences", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
