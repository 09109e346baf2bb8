package topic

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validGoalTypes = []string{
	model.GoalStudyTime,
	model.GoalCompletion,
	model.GoalExercises,
	model.GoalNotes,
}

type goalCreateBody struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GoalType    string     `json:"goal_type"`
	TargetValue float64    `json:"target_value"`
	TargetDate  *time.Time `json:"target_date"`
}

func GoalCreate(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid topic id", "id"))
		return
	}

	var data goalCreateBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	if strings.TrimSpace(data.Title) == "" {
		apperr.Respond(c, apperr.Validation("Goal title cannot be empty", "title"))
		return
	}

	if !slices.Contains(validGoalTypes, data.GoalType) {
		apperr.Respond(c, apperr.Validation("Invalid goal type", "goal_type"))
		return
	}

	if data.TargetValue <= 0 {
		apperr.Respond(c, apperr.Validation("Target value must be bigger than 0", "target_value"))
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

	goal := &model.TopicGoal{
		TopicID:     topicID,
		UserID:      userID,
		Title:       strings.TrimSpace(data.Title),
		Description: data.Description,
		GoalType:    data.GoalType,
		TargetValue: data.TargetValue,
		TargetDate:  data.TargetDate,
		IsActive:    true,
	}

	if err := d.DB.Create(goal).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to create goal", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

func GoalList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid topic id", "id"))
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

	activeOnly, err := strconv.ParseBool(c.DefaultQuery("active_only", "true"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid active_only", "active_only"))
		return
	}

	q := d.DB.Where("topic_id = ? AND user_id = ?", topicID, userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var goals []model.TopicGoal
	if err := q.Order("created_at desc").Find(&goals).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to list goals", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

type goalProgressBody struct {
	CurrentValue float64 `json:"current_value"`
}

func GoalUpdateProgress(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	goalID, err := uuid.Parse(c.Param("goalID"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid goal id", "goalID"))
		return
	}

	var data goalProgressBody
	if err := c.ShouldBind(&data); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid request body", ""))
		return
	}

	if data.CurrentValue < 0 {
		apperr.Respond(c, apperr.Validation("Current value cannot be negative", "current_value"))
		return
	}

	var goal model.TopicGoal
	err = d.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("Goal", goalID.String()))
			return
		}

		apperr.Respond(c, err)
		return
	}

	goal.UpdateProgress(data.CurrentValue)

	if err := d.DB.Save(&goal).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to update goal progress", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"goal":                goal,
		"progress_percentage": goal.ProgressPercentage(),
	})
}
