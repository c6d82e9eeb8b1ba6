package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gestorpro/gestorpro/internal/pkg/usercontext"
)

// currentUserID returns the session user's ID, 0 for anonymous requests
func currentUserID(c *fiber.Ctx) uint {
	return usercontext.GetUserID(c)
}

// jsonError writes the standard error envelope
func jsonError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": code, "message": message})
}

// parseDateField parses a YYYY-MM-DD value, falling back to today when empty
func parseDateField(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", value)
}

// monthOrCurrent validates a YYYY-MM query value, defaulting to this month
func monthOrCurrent(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now().Format("2006-01"), nil
	}
	if _, err := time.Parse("2006-01", value); err != nil {
		return "", err
	}
	return value, nil
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
