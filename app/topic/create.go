package topic

import (
	"net/http"
	"strings"
	"time"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type createBody struct {
	Name                  string     `json:"name"`
	Description           string     `json:"description"`
	Color                 string     `json:"color"`
	ParentTopicID         *uuid.UUID `json:"parent_topic_id"`
	SortOrder             int        `json:"sort_order"`
	DifficultyLevel       int        `json:"difficulty_level"`
	PriorityLevel         int        `json:"priority_level"`
	DailyStudyGoalMinutes int        `json:"daily_study_goal_minutes"`
	TargetCompletionDate  *time.Time `json:"target_completion_date"`
}

func TopicCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	var data createBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	name := strings.TrimSpace(data.Name)
	if name == "" {
		apperr.Respond(c, apperr.Validation("Topic name cannot be empty", "name"))
		return
	}
	if len(name) > 255 {
		apperr.Respond(c, apperr.Validation("Topic name must be 255 characters or less", "name"))
		return
	}

	if data.ParentTopicID != nil {
		parent, err := byID(d.DB, *data.ParentTopicID, userID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		if parent == nil {
			apperr.Respond(c, apperr.NotFound("Parent topic", data.ParentTopicID.String()))
			return
		}
	}

	t := &model.Topic{
		UserID:                userID,
		Name:                  name,
		Description:           data.Description,
		Color:                 data.Color,
		ParentTopicID:         data.ParentTopicID,
		SortOrder:             data.SortOrder,
		DifficultyLevel:       data.DifficultyLevel,
		PriorityLevel:         data.PriorityLevel,
		DailyStudyGoalMinutes: data.DailyStudyGoalMinutes,
		TargetCompletionDate:  data.TargetCompletionDate,
		IsActive:              true,
	}

	if t.DifficultyLevel == 0 {
		t.DifficultyLevel = 1
	}
	if t.PriorityLevel == 0 {
		t.PriorityLevel = 3
	}
	if t.DailyStudyGoalMinutes == 0 {
		t.DailyStudyGoalMinutes = 30
	}

	if err := d.DB.Create(t).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to create topic", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"topic": t})
}
