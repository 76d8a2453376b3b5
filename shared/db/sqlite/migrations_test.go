package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestRunMigrations(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := &SQLiteConfig{
		Path: dbPath,
	}

	database := NewSQLiteDB(cfg)
	err := database.Connect()
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	db := database.DB()

	// Verify schema_migrations table exists
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_migrations'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check schema_migrations table: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_migrations table not created")
	}

	// Verify images table exists
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='images'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check images table: %v", err)
	}
	if count != 1 {
		t.Errorf("images table not created")
	}

	// Verify index exists
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_images_category_create_time'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check index: %v", err)
	}
	if count != 1 {
		t.Errorf("idx_images_category_create_time index not created")
	}

	// Verify migration was recorded
	var version int
	var name string
	err = db.QueryRow("SELECT version, name FROM schema_migrations WHERE version = 1").Scan(&version, &name)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
	if name != "create_images_table" {
		t.Errorf("name = %q, want %q", name, "create_images_table")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := &SQLiteConfig{
		Path: dbPath,
	}

	// Connect first time
	database := NewSQLiteDB(cfg)
	err := database.Connect()
	if err != nil {
		t.Fatalf("First Connect() error = %v", err)
	}
	database.Close()

	// Connect second time - migrations should not fail
	database = NewSQLiteDB(cfg)
	err = database.Connect()
	if err != nil {
		t.Fatalf("Second Connect() error = %v", err)
	}
	defer database.Close()

	db := database.DB()

	// Verify migration was only recorded once
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 1").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("migration recorded %d times, want 1", count)
	}
}

func TestImagesTableSchema(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := &SQLiteConfig{
		Path: dbPath,
	}

	database := NewSQLiteDB(cfg)
	err := database.Connect()
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer database.Close()

	db := database.DB()

	// Test inserting an image record
	_, err = db.Exec(`
		INSERT INTO images (uuid, category, mime, create_time)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, "abc", "public", "image/jpeg")
	if err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	// Test querying the record
	var uuid, category, mime string
	var createTime sql.NullTime
	err = db.QueryRow("SELECT uuid, category, mime, create_time FROM images WHERE uuid = ?", "abc").
		Scan(&uuid, &category, &mime, &createTime)
	if err != nil {
		t.Fatalf("Failed to query image: %v", err)
	}

	if uuid != "abc" {
		t.Errorf("uuid = %q, want %q", uuid, "abc")
	}
	if category != "public" {
		t.Errorf("category = %q, want %q", category, "public")
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %q, want %q", mime, "image/jpeg")
	}
	if !createTime.Valid {
		t.Error("create_time should not be NULL")
	}

	// Duplicate uuid must violate the primary key
	_, err = db.Exec(`
		INSERT INTO images (uuid, category, mime, create_time)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, "abc", "public", "image/jpeg")
	if err == nil {
		t.Error("duplicate uuid insert should fail")
	}
}
