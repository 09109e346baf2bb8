package topic

import (
	"net/http"
	"strings"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TopicSearch(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(uuid.UUID)

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		apperr.Respond(c, apperr.Validation("Search term cannot be empty", "q"))
		return
	}

	pattern := "%" + strings.ToLower(term) + "%"

	var topics []model.Topic
	err := d.DB.
		Where("user_id = ?", userID).
		Where("lower(name) LIKE ? OR lower(description) LIKE ?", pattern, pattern).
		Order("name asc").
		Find(&topics).
		Error
	if err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to search topics", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topics": topics,
		"total":  len(topics),
		"query":  term,
	})
}
