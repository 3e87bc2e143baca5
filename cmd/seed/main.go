package main

import (
	"fmt"
	"log"
	"os"

	"roombooking/internal/database"
	"roombooking/internal/domain"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roombooking.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Hostel{},
		&domain.Room{},
		&domain.Reservation{},
		&domain.FairnessSnapshot{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}
	if err := database.EnsureOverlapGuard(db); err != nil {
		log.Fatal("Overlap guard index failed:", err)
	}

	// Cleanup old data (children first)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM fairness_snapshots")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM hostels")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	adminHash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := domain.User{
		Email:        "admin@hostel.example",
		PasswordHash: string(adminHash),
		Role:         domain.RoleAdmin,
		Name:         "Warden",
	}
	db.Create(&admin)
	log.Println("Admin created: admin@hostel.example / admin123")

	residentEmails := []string{"maya@student.example", "tom@student.example", "lena@student.example"}
	for i, email := range residentEmails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("resident123"), bcrypt.DefaultCost)
		db.Create(&domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Role:         domain.RoleResident,
			Name:         fmt.Sprintf("Resident %d", i+1),
			RoomNumber:   fmt.Sprintf("%d0%d", i+1, i+3),
		})
	}

	// ================== HOSTELS & ROOMS ==================
	log.Println("Creating hostels and rooms...")

	hostels := []domain.Hostel{
		{Name: "North Wing", Code: "NW"},
		{Name: "South Wing", Code: "SW"},
	}
	for i := range hostels {
		db.Create(&hostels[i])
	}

	roomTypes := []domain.RoomType{domain.RoomStudy, domain.RoomMeeting, domain.RoomMusic, domain.RoomRecreation}
	for i := 0; i < 8; i++ {
		hostel := hostels[i%len(hostels)]
		room := domain.Room{
			HostelID: hostel.ID,
			Name:     fmt.Sprintf("%s-%d", hostel.Code, i+1),
			Capacity: 4 + (i%3)*4,
			RoomType: roomTypes[i%len(roomTypes)],
			Status:   domain.RoomActive,
		}
		// One room on a tighter daytime schedule with 15-minute slots.
		if i == 7 {
			room.OpenHour = 8
			room.CloseHour = 22
			room.SlotMinutes = 15
		}
		// One room down for maintenance to exercise the status checks.
		if i == 6 {
			room.Status = domain.RoomMaintenance
		}
		db.Create(&room)
	}

	log.Println("Seed complete.")
}
