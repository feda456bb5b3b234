// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"funolympics/internal/db"
)

// Header is the column layout of the published dataset.
var Header = []string{"Date", "Country", "Continent", "Gender", "Sport Viewed", "Request", "Rating", "Feedback"}

// ScenarioRows is the three-record dataset used throughout the query tests.
var ScenarioRows = [][]string{
	{"2024-01-01", "USA", "NA", "M", "Swimming", "Live", "5", "Positive"},
	{"2024-01-01", "UK", "EU", "F", "Swimming", "Replay", "4", "Neutral"},
	{"2024-02-01", "USA", "NA", "M", "Running", "Live", "5", "Positive"},
}

// SampleRows is a larger dataset covering every view.
var SampleRows = [][]string{
	{"2024-01-01", "USA", "North America", "Male", "Swimming", "Live", "5", "Positive"},
	{"2024-01-01", "Canada", "North America", "Female", "Swimming", "Replay", "4", "Neutral"},
	{"2024-01-02", "USA", "North America", "Female", "Athletics", "Live", "3", "Negative"},
	{"2024-01-02", "France", "Europe", "Male", "Swimming", "Highlights", "5", "Positive"},
	{"2024-01-03", "Germany", "Europe", "Female", "Athletics", "Live", "4", "Positive"},
	{"2024-01-03", "France", "Europe", "Male", "Athletics", "Replay", "2", "Negative"},
	{"2024-02-01", "Kenya", "Africa", "Male", "Athletics", "Live", "5", "Positive"},
	{"2024-02-01", "USA", "North America", "Male", "Swimming", "Highlights", "4", "Neutral"},
	{"2024-02-02", "Canada", "North America", "Female", "Cycling", "Live", "3", "Neutral"},
	{"2024-02-03", "Germany", "Europe", "Male", "Cycling", "Replay", "4", "Positive"},
}

// WriteCSV writes header and rows to a CSV file in a temp dir and returns its path.
func WriteCSV(t *testing.T, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dataset.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("failed to write rows: %v", err)
	}
	return path
}

// TestDB creates a test database connection and returns a cleanup function.
// Skips the test unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM view_renders")
	pool.Exec(ctx, "DELETE FROM view_exports")
}
