package preferences

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"
	"studysprint/study-api/pkg/validators"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type updateBody struct {
	Theme    *string `json:"theme"`
	Language *string `json:"language"`
	Timezone *string `json:"timezone"`

	DefaultStudyDuration  *int  `json:"default_study_duration"`
	DefaultBreakDuration  *int  `json:"default_break_duration"`
	AutoStartTimer        *bool `json:"auto_start_timer"`
	DailyStudyGoalMinutes *int  `json:"daily_study_goal_minutes"`

	NotificationSettings map[string]any `json:"notification_settings"`
	StudyPreferences     map[string]any `json:"study_preferences"`
	PrivacySettings      map[string]any `json:"privacy_settings"`
}

// PreferencesUpdate overwrites scalar fields and merges the JSON
// setting groups key-wise, so updating one notification flag leaves
// its siblings untouched
func PreferencesUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	var data updateBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	if data.Theme != nil {
		if err := validators.ThemeValidator(*data.Theme); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "theme"))
			return
		}
	}

	if data.Language != nil {
		if err := validators.LanguageValidator(*data.Language); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "language"))
			return
		}
	}

	if data.DefaultStudyDuration != nil {
		if err := validators.StudyDurationValidator(*data.DefaultStudyDuration); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "default_study_duration"))
			return
		}
	}

	if data.DefaultBreakDuration != nil {
		if err := validators.BreakDurationValidator(*data.DefaultBreakDuration); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "default_break_duration"))
			return
		}
	}

	if data.DailyStudyGoalMinutes != nil {
		if err := validators.DailyGoalValidator(*data.DailyStudyGoalMinutes); err != nil {
			apperr.Respond(c, apperr.Validation(err.Error(), "daily_study_goal_minutes"))
			return
		}
	}

	prefs, err := loadOrCreate(d.DB, userID)
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to fetch preferences", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.Theme != nil {
		prefs.Theme = *data.Theme
	}
	if data.Language != nil {
		prefs.Language = *data.Language
	}
	if data.Timezone != nil {
		prefs.Timezone = *data.Timezone
	}
	if data.DefaultStudyDuration != nil {
		prefs.DefaultStudyDuration = *data.DefaultStudyDuration
	}
	if data.DefaultBreakDuration != nil {
		prefs.DefaultBreakDuration = *data.DefaultBreakDuration
	}
	if data.AutoStartTimer != nil {
		prefs.AutoStartTimer = *data.AutoStartTimer
	}
	if data.DailyStudyGoalMinutes != nil {
		prefs.DailyStudyGoalMinutes = *data.DailyStudyGoalMinutes
	}

	if data.NotificationSettings != nil {
		prefs.NotificationSettings = prefs.NotificationSettings.Merge(data.NotificationSettings)
	}
	if data.StudyPreferences != nil {
		prefs.StudyPreferences = prefs.StudyPreferences.Merge(data.StudyPreferences)
	}
	if data.PrivacySettings != nil {
		prefs.PrivacySettings = prefs.PrivacySettings.Merge(data.PrivacySettings)
	}

	if err := d.DB.Save(prefs).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to update preferences", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
