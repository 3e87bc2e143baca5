package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// IsPostgres reports whether db is backed by Postgres. The reservation
// repository uses it to decide whether row locking clauses apply
// (SQLite rejects FOR UPDATE but serializes writers on its own).
func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// EnsureOverlapGuard creates the partial unique index on live
// reservations for (room_id, start_time, end_time). Defense in depth
// behind the transactional conflict check, not a substitute for it.
func EnsureOverlapGuard(db *gorm.DB) error {
	// Partial index syntax is shared by Postgres and SQLite.
	return db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_room_interval
ON reservations (room_id, start_time, end_time)
WHERE status <> 'cancelled'
`).Error
}
