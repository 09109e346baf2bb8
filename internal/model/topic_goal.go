package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal types a TopicGoal can track
const (
	GoalStudyTime  = "study_time"
	GoalCompletion = "completion"
	GoalExercises  = "exercises"
	GoalNotes      = "notes"
)

type TopicGoal struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID uuid.UUID `gorm:"type:uuid;not null;index" json:"topic_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	GoalType    string `gorm:"size:50;not null" json:"goal_type"`

	TargetValue  float64    `gorm:"not null" json:"target_value"`
	CurrentValue float64    `gorm:"not null;default:0" json:"current_value"`
	TargetDate   *time.Time `json:"target_date,omitempty"`

	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Topic *Topic `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"-"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (g *TopicGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// ProgressPercentage reports goal completion capped at 100
func (g *TopicGoal) ProgressPercentage() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	pct := g.CurrentValue / g.TargetValue * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// Overdue reports whether the goal missed its target date
func (g *TopicGoal) Overdue() bool {
	if g.TargetDate == nil || g.IsCompleted {
		return false
	}
	return time.Now().UTC().After(*g.TargetDate)
}

// UpdateProgress records a new current value and completes the goal
// once the target is reached
func (g *TopicGoal) UpdateProgress(value float64) {
	g.CurrentValue = value

	if g.CurrentValue >= g.TargetValue && !g.IsCompleted {
		now := time.Now().UTC()
		g.IsCompleted = true
		g.CompletedAt = &now
	}
}
