// Package topic contains the study-topic and goal endpoints
package topic

import (
	"errors"

	"studysprint/study-api/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// byID fetches a topic and verifies ownership in the same query.
// Returns nil when the topic doesn't exist or belongs to someone else
func byID(db *gorm.DB, topicID, userID uuid.UUID) (*model.Topic, error) {
	var t model.Topic

	err := db.Where("id = ? AND user_id = ?", topicID, userID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &t, nil
}
