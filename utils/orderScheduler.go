package utils

import (
	"fmt"
	"log"
	"time"

	"lms/database"
	"lms/models"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[ORDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// expireStaleOrders marks CREATED payment orders older than 24h as EXPIRED.
// An abandoned checkout never gets a capture webhook, so these rows would
// otherwise sit in CREATED forever.
func expireStaleOrders() {
	db := database.Database.Db
	cutoff := time.Now().Add(-24 * time.Hour)

	result := db.Model(&models.PaymentOrder{}).
		Where("status = ? AND created_at < ?", models.OrderStatusCreated, cutoff).
		Update("status", models.OrderStatusExpired)
	if result.Error != nil {
		logScheduler("Error expiring stale payment orders: " + result.Error.Error())
		return
	}

	if result.RowsAffected > 0 {
		logScheduler(fmt.Sprintf("Expired %d stale payment orders", result.RowsAffected))
	}
}

// StartOrderScheduler runs the stale-order expiry job once a day
func StartOrderScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@daily", expireStaleOrders); err != nil {
		log.Fatalf("Failed to schedule order expiry job: %v", err)
	}

	c.Start()
	logScheduler("Order scheduler started")
	return c
}
