package topic

import (
	"net/http"
	"strings"
	"time"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type updateBody struct {
	Name                  *string    `json:"name"`
	Description           *string    `json:"description"`
	Color                 *string    `json:"color"`
	ParentTopicID         *uuid.UUID `json:"parent_topic_id"`
	SortOrder             *int       `json:"sort_order"`
	DifficultyLevel       *int       `json:"difficulty_level"`
	PriorityLevel         *int       `json:"priority_level"`
	DailyStudyGoalMinutes *int       `json:"daily_study_goal_minutes"`
	TargetCompletionDate  *time.Time `json:"target_completion_date"`
	StudyProgress         *float64   `json:"study_progress"`
}

func TopicUpdate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid topic id", "id"))
		return
	}

	var data updateBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	t, err := byID(d.DB, topicID, userID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if t == nil {
		apperr.Respond(c, apperr.NotFound("Topic", topicID.String()))
		return
	}

	if data.ParentTopicID != nil {
		if *data.ParentTopicID == topicID {
			apperr.Respond(c, apperr.Validation("Topic cannot be its own parent", "parent_topic_id"))
			return
		}

		parent, err := byID(d.DB, *data.ParentTopicID, userID)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		if parent == nil {
			apperr.Respond(c, apperr.NotFound("Parent topic", data.ParentTopicID.String()))
			return
		}

		t.ParentTopicID = data.ParentTopicID
	}

	if data.Name != nil {
		name := strings.TrimSpace(*data.Name)
		if name == "" {
			apperr.Respond(c, apperr.Validation("Topic name cannot be empty", "name"))
			return
		}
		t.Name = name
	}

	if data.Description != nil {
		t.Description = *data.Description
	}
	if data.Color != nil {
		t.Color = *data.Color
	}
	if data.SortOrder != nil {
		t.SortOrder = *data.SortOrder
	}
	if data.DifficultyLevel != nil {
		t.DifficultyLevel = *data.DifficultyLevel
	}
	if data.PriorityLevel != nil {
		t.PriorityLevel = *data.PriorityLevel
	}
	if data.DailyStudyGoalMinutes != nil {
		t.DailyStudyGoalMinutes = *data.DailyStudyGoalMinutes
	}
	if data.TargetCompletionDate != nil {
		t.TargetCompletionDate = data.TargetCompletionDate
	}
	if data.StudyProgress != nil {
		t.StudyProgress = *data.StudyProgress
	}

	// Save runs the clamping hook, out-of-range levels get pinned
	if err := d.DB.Save(t).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to update topic", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": t})
}
