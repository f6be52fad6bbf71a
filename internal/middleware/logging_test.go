package middleware

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"yatube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	SetLogger(NewLogger(&buf, "production", level))
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "production", "warn")
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	NewLogger(&buf, "production", "nonsense").Info("defaults to info")
	assert.Contains(t, buf.String(), "defaults to info")
}

func TestCtxHandler_AddsRequestIdentifiers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "production", "info")

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(7))
	l.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"user_id":7`)
}

func TestStructuredLogger_Levels(t *testing.T) {
	buf := captureLogs(t, "debug")

	app := fiber.New()
	app.Use(StructuredLogger("/health/"))
	app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendString("up") })
	app.Get("/missing", func(c *fiber.Ctx) error { return models.NewNotFoundError("Post", 1) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.ErrBadGateway })
	app.Get("/denied", func(c *fiber.Ctx) error { return models.NewForbiddenError("no") })

	tests := []struct {
		path  string
		level string
	}{
		{"/health/live", `"level":"DEBUG"`},
		{"/missing", `"level":"INFO"`},
		{"/boom", `"level":"ERROR"`},
		{"/denied", `"level":"WARN"`},
	}
	for _, tt := range tests {
		buf.Reset()
		_, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), tt.level, tt.path)
		assert.Contains(t, buf.String(), `"route":"`+tt.path+`"`, tt.path)
	}
}
