package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"roombooking/internal/database"
	"roombooking/internal/repository"
)

// Flips confirmed reservations whose end has passed to completed. Run
// from cron; the API never performs this transition itself.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewReservationRepository(db)
	n, err := repo.SweepCompleted(ctx, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("sweep: marked %d reservations completed", n)
}
