// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"stackify/internal/database"
	"stackify/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "stackify")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "stackify")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Their sites go with them.
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// testUser creates a throwaway user and registers its removal.
func testUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	t.Cleanup(func() { cleanUsers(t, db, email) })
	cleanUsers(t, db, email)

	u, err := NewUserStore(db).Create("tester", email, "testpass123", models.RoleUser)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return u
}

// testSite inserts a site with one block and one cached image for owner.
func testSite(t *testing.T, db *sql.DB, owner uuid.UUID, title string) *models.Site {
	t.Helper()
	site, err := NewSiteStore(db).Create(&models.Site{
		UserID: owner,
		Title:  title,
		Prompt: "a cozy cafe",
		Content: models.SiteContent{
			Title:  title,
			Blocks: []models.Block{{ID: "hero", Name: "Hero", Code: "<img src='https://img.test/cup'>"}},
		},
		ImageCache: models.ImageCache{"coffee cup": "https://img.test/cup"},
	})
	if err != nil {
		t.Fatalf("create test site: %v", err)
	}
	return site
}
