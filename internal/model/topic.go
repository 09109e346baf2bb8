package model

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultTopicColor = "#3498db"

type Topic struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Color       string `gorm:"size:7;not null;default:#3498db" json:"color"`

	ParentTopicID *uuid.UUID `gorm:"type:uuid;index" json:"parent_topic_id,omitempty"`
	SortOrder     int        `gorm:"not null;default:0" json:"sort_order"`

	// Cached aggregates. Maintained by the content modules, not
	// recomputed here.
	TotalPDFs      int     `gorm:"column:total_pdfs;not null;default:0" json:"total_pdfs"`
	TotalExercises int     `gorm:"not null;default:0" json:"total_exercises"`
	TotalNotes     int     `gorm:"not null;default:0" json:"total_notes"`
	StudyProgress  float64 `gorm:"not null;default:0" json:"study_progress"`

	TotalStudyTimeMinutes    int `gorm:"not null;default:0" json:"total_study_time_minutes"`
	EstimatedCompletionHours int `gorm:"not null;default:0" json:"estimated_completion_hours"`

	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	TargetCompletionDate  *time.Time `json:"target_completion_date,omitempty"`
	DailyStudyGoalMinutes int        `gorm:"not null;default:30" json:"daily_study_goal_minutes"`

	DifficultyLevel int `gorm:"not null;default:1" json:"difficulty_level"`
	PriorityLevel   int `gorm:"not null;default:3" json:"priority_level"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	User        *User   `gorm:"foreignKey:UserID" json:"-"`
	ParentTopic *Topic  `gorm:"foreignKey:ParentTopicID" json:"-"`
	Subtopics   []Topic `gorm:"foreignKey:ParentTopicID;constraint:OnDelete:CASCADE" json:"subtopics,omitempty"`
}

func (t *Topic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeSave clamps the learning metadata into its allowed ranges so a
// bad write can never persist an out-of-range value
func (t *Topic) BeforeSave(tx *gorm.DB) error {
	t.DifficultyLevel = clampInt(t.DifficultyLevel, 1, 5)
	t.PriorityLevel = clampInt(t.PriorityLevel, 1, 5)
	t.StudyProgress = clampFloat(t.StudyProgress, 0, 100)

	if !validHexColor(t.Color) {
		t.Color = DefaultTopicColor
	}

	return nil
}

// IsRoot reports whether the topic has no parent
func (t *Topic) IsRoot() bool {
	return t.ParentTopicID == nil
}

// TotalContentItems sums the cached content counters
func (t *Topic) TotalContentItems() int {
	return t.TotalPDFs + t.TotalExercises + t.TotalNotes
}

// Overdue reports whether the topic blew past its target date without
// being completed
func (t *Topic) Overdue() bool {
	if t.TargetCompletionDate == nil || t.IsCompleted {
		return false
	}
	return time.Now().UTC().After(*t.TargetCompletionDate)
}

// MarkCompleted flags the topic done and pins progress to 100
func (t *Topic) MarkCompleted() {
	now := time.Now().UTC()
	t.IsCompleted = true
	t.CompletedAt = &now
	t.StudyProgress = 100
}

// MarkIncomplete reopens a completed topic
func (t *Topic) MarkIncomplete() {
	t.IsCompleted = false
	t.CompletedAt = nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func validHexColor(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(c[1:], 16, 32)
	return err == nil
}
