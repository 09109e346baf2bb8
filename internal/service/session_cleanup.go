package service

import (
	"time"

	"studysprint/study-api/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionCleanup defines a function used to periodically purge session
// rows that are long dead. Revocation only flips rows inactive so the
// audit trail survives; this removes rows once they are past the
// retention window and can't matter anymore
func SessionCleanup(t time.Duration, retention time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Session cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			cutoff := time.Now().UTC().Add(-retention)

			res := db.
				Where("refresh_expires_at < ? AND last_used_at < ?", time.Now().UTC(), cutoff).
				Delete(model.Session{})
			if res.Error != nil {
				zap.L().Error("Failed to purge dead sessions", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Purged dead sessions", zap.Int64("rows", res.RowsAffected))
			}
		}
	}()
}
