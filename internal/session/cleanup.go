package session

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// StartCleanup schedules a periodic purge of gateway sessions idle for
// longer than ttl. Returns the running scheduler so the caller can stop it
// on shutdown.
func StartCleanup(db *gorm.DB, logger zerolog.Logger, schedule string, ttl time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		purgeExpired(db, logger, ttl)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info().Str("schedule", schedule).Dur("ttl", ttl).Msg("Session cleanup scheduled")
	return c, nil
}

func purgeExpired(db *gorm.DB, logger zerolog.Logger, ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	result := db.Where("last_seen_at < ?", cutoff).Delete(&Session{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("Failed to purge expired sessions")
		return
	}

	if result.RowsAffected > 0 {
		logger.Info().Int64("purged", result.RowsAffected).Msg("Expired sessions purged")
	}
}
