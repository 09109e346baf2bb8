package topic

import (
	"net/http"
	"strconv"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TopicList(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	q := d.DB.Where("user_id = ?", userID)

	// No parent filter means root topics only
	if parent := c.Query("parent_id"); parent != "" {
		parentID, err := uuid.Parse(parent)
		if err != nil {
			apperr.Respond(c, apperr.Validation("Invalid parent_id", "parent_id"))
			return
		}
		q = q.Where("parent_topic_id = ?", parentID)
	} else {
		q = q.Where("parent_topic_id IS NULL")
	}

	includeCompleted, err := strconv.ParseBool(c.DefaultQuery("include_completed", "true"))
	if err != nil {
		apperr.Respond(c, apperr.Validation("Invalid include_completed", "include_completed"))
		return
	}
	if !includeCompleted {
		q = q.Where("is_completed = ?", false)
	}

	switch c.DefaultQuery("sort_by", "sort_order") {
	case "name":
		q = q.Order("name asc")
	case "created_at":
		q = q.Order("created_at desc")
	case "progress":
		q = q.Order("study_progress desc")
	default:
		q = q.Order("sort_order asc").Order("name asc")
	}

	var topics []model.Topic
	if err := q.Find(&topics).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to list topics", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
		"total":  len(topics),
	})
}
