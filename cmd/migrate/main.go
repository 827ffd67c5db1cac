package main

import (
	"log"
	"os"

	"souartista-be/internal/model"
	"souartista-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Running migrations...")

	err = db.AutoMigrate(
		&model.Profile{},
		&model.Subscription{},
		&model.PaymentHistory{},
		&model.Notification{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations applied.")
}
