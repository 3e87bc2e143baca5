package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roombooking/internal/config"
	"roombooking/internal/database"
	"roombooking/internal/middleware"
	"roombooking/internal/modules/auth"
	"roombooking/internal/modules/availability"
	"roombooking/internal/modules/booking"
	"roombooking/internal/modules/catalog"
	"roombooking/internal/pkg/clock"
	jwtsvc "roombooking/internal/pkg/jwt"
	"roombooking/internal/repository"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	cfg, err := config.LoadBookingConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.EnsureOverlapGuard(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	hostelRepo := repository.NewHostelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	j := jwtsvc.New(secret, 24*time.Hour)
	clk := clock.System()

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(hostelRepo, roomRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availabilityService := availability.NewService(reservationRepo, roomRepo, cfg, clk)
	hub := availability.NewHub()
	defer hub.Close()
	feed := availability.NewFeed(hub, availabilityService)
	availabilityHandler := availability.NewHandler(availabilityService, hub)

	bookingService := booking.NewService(reservationRepo, roomRepo, feed, cfg, clk)
	bookingHandler := booking.NewHandler(bookingService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		// reads: identity optional, only enriches the projection
		reads := v1.Group("/")
		reads.Use(middleware.OptionalAuth(j))
		{
			availabilityHandler.RegisterRoutes(reads)
		}

		// writes
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
