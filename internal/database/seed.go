package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Default development admin credentials created by Seed.
const (
	SeedAdminEmail    = "admin@stackify.local"
	SeedAdminPassword = "admin"
)

// Seed populates the database with initial development data: a default
// admin account so the review queue can be used right away. It does
// nothing if an admin already exists.
func Seed(db *sql.DB) error {
	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE role = 'admin')`).Scan(&exists); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}
	if exists {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (email) DO NOTHING
	`, "Admin", SeedAdminEmail, string(hash))
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)
	return nil
}
