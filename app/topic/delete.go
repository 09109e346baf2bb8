package topic

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopicDelete removes a topic and its subtopic tree. Topics that still
// hold content refuse to die until the content is moved or deleted
func TopicDelete(c *gin.Context, d *internal.Deps) {
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

	if t.TotalContentItems() > 0 {
		apperr.Respond(c, apperr.BusinessLogic("Cannot delete topic with existing content. Please move or delete content first"))
		return
	}

	// Subtopics go with the parent. Done in application code so the
	// delete also works on databases without FK cascade enforcement
	err = d.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteSubtree(tx, topicID, userID); err != nil {
			return err
		}

		return tx.Delete(t).Error
	})
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to delete topic", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":   true,
		"requestID": requestID,
	})
}

func deleteSubtree(tx *gorm.DB, parentID, userID uuid.UUID) error {
	var children []model.Topic

	err := tx.Where("parent_topic_id = ? AND user_id = ?", parentID, userID).Find(&children).Error
	if err != nil {
		return err
	}

	for _, child := range children {
		if err := deleteSubtree(tx, child.ID, userID); err != nil {
			return err
		}

		if err := tx.Delete(&child).Error; err != nil {
			return err
		}
	}

	return nil
}
