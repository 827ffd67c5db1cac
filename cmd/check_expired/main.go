package main

import (
	"context"
	"log"
	"os"

	"souartista-be/internal/bootstrap"
	"souartista-be/internal/config"
	"souartista-be/pkg/database"

	"github.com/fatih/color"
)

// Cron entry point for the expiration sweep. The same logic is exposed
// over POST /api/jobs/check-expired-subscriptions.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewJobContainer(db, cfg)

	// The consumer must be listening before the sweep publishes status
	// changes; the job bus blocks each publish until it acks.
	if err := container.ConsumerService.Consume(context.Background()); err != nil {
		log.Fatalf("Unable to start status consumer: %v", err)
	}

	summary, err := container.SweepService.CheckExpired(context.Background())
	if err != nil {
		color.Red("Expiration check failed: %v", err)
		os.Exit(1)
	}

	color.Green("Expiration check finished: expired=%d errors=%d total=%d",
		summary.Expired, summary.Errors, summary.Total)
	if summary.Errors > 0 {
		color.Yellow("Some subscriptions could not be expired, see logs")
	}
}
