package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Preferences struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Theme    string `gorm:"size:20;not null;default:light" json:"theme"`
	Language string `gorm:"size:10;not null;default:en" json:"language"`
	Timezone string `gorm:"size:50;not null;default:UTC" json:"timezone"`

	DefaultStudyDuration  int  `gorm:"not null;default:25" json:"default_study_duration"`
	DefaultBreakDuration  int  `gorm:"not null;default:5" json:"default_break_duration"`
	AutoStartTimer        bool `gorm:"not null;default:false" json:"auto_start_timer"`
	DailyStudyGoalMinutes int  `gorm:"not null;default:120" json:"daily_study_goal_minutes"`

	NotificationSettings JSONMap `gorm:"type:text;not null" json:"notification_settings"`
	StudyPreferences     JSONMap `gorm:"type:text;not null" json:"study_preferences"`
	PrivacySettings      JSONMap `gorm:"type:text;not null" json:"privacy_settings"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (p *Preferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.NotificationSettings == nil {
		p.NotificationSettings = DefaultNotificationSettings()
	}
	if p.StudyPreferences == nil {
		p.StudyPreferences = DefaultStudyPreferences()
	}
	if p.PrivacySettings == nil {
		p.PrivacySettings = DefaultPrivacySettings()
	}
	return nil
}

// DefaultPreferences returns a fresh preferences row with every field
// at its default. Created lazily for users that don't have one yet
func DefaultPreferences(userID uuid.UUID) *Preferences {
	return &Preferences{
		UserID:                userID,
		Theme:                 "light",
		Language:              "en",
		Timezone:              "UTC",
		DefaultStudyDuration:  25,
		DefaultBreakDuration:  5,
		AutoStartTimer:        false,
		DailyStudyGoalMinutes: 120,
		NotificationSettings:  DefaultNotificationSettings(),
		StudyPreferences:      DefaultStudyPreferences(),
		PrivacySettings:       DefaultPrivacySettings(),
	}
}

func DefaultNotificationSettings() JSONMap {
	return JSONMap{
		"email_notifications": true,
		"study_reminders":     true,
		"goal_achievements":   true,
		"weekly_reports":      true,
		"break_reminders":     true,
		"session_summaries":   true,
	}
}

func DefaultStudyPreferences() JSONMap {
	return JSONMap{
		"reading_speed_tracking":   true,
		"page_time_tracking":       true,
		"idle_detection_threshold": 30,
		"auto_save_notes":          true,
		"smart_highlights":         true,
		"exercise_suggestions":     true,
	}
}

func DefaultPrivacySettings() JSONMap {
	return JSONMap{
		"profile_visibility": "private",
		"share_study_stats":  false,
		"data_collection":    true,
		"analytics_tracking": true,
	}
}
