package topic

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

func TopicFetch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid topic id", "id"))
		return
	}

	var t model.Topic
	err = d.DB.
		Preload("Subtopics").
		Where("id = ? AND user_id = ?", topicID, userID).
		First(&t).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apperr.Respond(c, apperr.NotFound("Topic", topicID.String()))
			return
		}

		apperr.Respond(c, err)

		zap.L().Error("Failed to fetch topic", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var goals int64
	if err := d.DB.Model(model.TopicGoal{}).Where("topic_id = ?", t.ID).Count(&goals).Error; err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topic":      t,
		"goal_count": goals,
	})
}
