package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"mediconnect-server/internal/models"
)

// StartScheduler wires the nightly maintenance jobs and starts the cron
// loop in the background.
func StartScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()

	// Runs every day at 00:05 AM
	c.AddFunc("5 0 * * *", func() {
		log.Println("Running refresh token cleanup...")
		if err := PurgeStaleRefreshTokens(db); err != nil {
			log.Println("Error purging refresh tokens:", err)
		}
	})

	c.Start()
	return c
}

// PurgeStaleRefreshTokens deletes refresh tokens that are expired or
// have been revoked. Login and refresh only ever append rows, so without
// this the table grows without bound.
func PurgeStaleRefreshTokens(db *gorm.DB) error {
	res := db.Where("expires_at < ? OR is_revoked = ?", time.Now(), true).
		Delete(&models.RefreshToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("Purged %d stale refresh tokens", res.RowsAffected)
	}
	return nil
}
