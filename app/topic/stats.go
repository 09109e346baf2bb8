package topic

import (
	"net/http"

	"studysprint/study-api/internal"
	"studysprint/study-api/internal/model"
	"studysprint/study-api/pkg/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TopicStats reports the cached aggregates plus live counts of
// subtopics and goals. The content counters themselves are maintained
// by the content modules, not recomputed here
func TopicStats(c *gin.Context, d *internal.Deps) {
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

	var subtopics int64
	if err := d.DB.Model(model.Topic{}).Where("parent_topic_id = ?", t.ID).Count(&subtopics).Error; err != nil {
		apperr.Respond(c, err)
		return
	}

	var goals int64
	if err := d.DB.Model(model.TopicGoal{}).Where("topic_id = ?", t.ID).Count(&goals).Error; err != nil {
		apperr.Respond(c, err)

		zap.L().Error("Failed to count goals", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topic_id":                 t.ID,
		"total_pdfs":               t.TotalPDFs,
		"total_exercises":          t.TotalExercises,
		"total_notes":              t.TotalNotes,
		"total_content_items":      t.TotalContentItems(),
		"study_progress":           t.StudyProgress,
		"total_study_time_minutes": t.TotalStudyTimeMinutes,
		"is_completed":             t.IsCompleted,
		"is_overdue":               t.Overdue(),
		"subtopic_count":           subtopics,
		"goal_count":               goals,
	})
}
