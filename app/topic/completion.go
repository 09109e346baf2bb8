package topic

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TopicToggleCompletion(c *gin.Context, d *internal.Deps) {
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

	if t.IsCompleted {
		t.MarkIncomplete()
	} else {
		t.MarkCompleted()
	}

	if err := d.DB.Save(t).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to toggle topic completion", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"topic": t})
}
