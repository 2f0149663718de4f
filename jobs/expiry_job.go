package jobs

import (
	"log"
	"strconv"
	"time"

	config "github.com/etuitionbd/etuition_backend/configs"
	"github.com/etuitionbd/etuition_backend/database"
	"github.com/etuitionbd/etuition_backend/models"
)

const defaultOpenTuitionTTLDays = 90

// CloseStaleOpenTuitions sweeps tuitions that stayed open past the configured
// TTL and closes them so listings stay meaningful. Closed is terminal, same
// as a student withdrawal.
func CloseStaleOpenTuitions() {
	log.Println("Running job: CloseStaleOpenTuitions...")

	ttlDays := defaultOpenTuitionTTLDays
	if raw := config.Config("OPEN_TUITION_TTL_DAYS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			ttlDays = parsed
		}
	}

	cutoff := time.Now().AddDate(0, 0, -ttlDays)

	result := database.DB.Model(&models.Tuition{}).
		Where("status = ? AND posted_at < ?", models.TuitionStatusOpen, cutoff).
		Updates(map[string]interface{}{
			"status":    models.TuitionStatusClosed,
			"closed_at": time.Now(),
		})
	if result.Error != nil {
		log.Printf("Error closing stale tuitions: %v", result.Error)
		return
	}

	if result.RowsAffected == 0 {
		log.Println("No stale open tuitions found.")
		return
	}
	log.Printf("Closed %d stale open tuition(s).", result.RowsAffected)
}
