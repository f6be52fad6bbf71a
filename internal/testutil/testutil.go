// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"yatube/internal/config"
	"yatube/internal/database"

	"gorm.io/gorm"
)

// TestConfig returns a valid configuration backed by in-memory SQLite.
func TestConfig() *config.Config {
	return &config.Config{
		Env:                      "test",
		Port:                     "0",
		JWTSecret:                "test-secret-that-is-at-least-32-characters",
		SessionTTLHours:          24,
		DBDriver:                 "sqlite",
		DBSQLitePath:             ":memory:",
		DBConnMaxLifetimeMinutes: 1,
		RedisURL:                 "localhost:6379",
		PageCacheTTLSeconds:      20,
		PostsPerPage:             10,
		MediaBackend:             "local",
		MediaURL:                 "/media/",
		ImageMaxUploadSizeMB:     5,
		TracingSamplerRatio:      1,
	}
}

// NewTestDB opens a fresh migrated in-memory database that is closed with the test.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Connect(TestConfig())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func sampleImage() *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.White, color.Black})
	img.SetColorIndex(1, 1, 1)
	return img
}

// PNGBytes returns a tiny valid PNG image.
func PNGBytes() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, sampleImage())
	return buf.Bytes()
}

// GIFBytes returns a tiny valid GIF image.
func GIFBytes() []byte {
	var buf bytes.Buffer
	_ = gif.Encode(&buf, sampleImage(), nil)
	return buf.Bytes()
}
