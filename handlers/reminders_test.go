package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRemindersRouteNotFound(t *testing.T) {
	app := fiber.New()
	// we don't register reminder routes here; expect 404
	req := httptest.NewRequest("GET", "/api/v1/pantry/reminders", nil)
	resp, _ := app.Test(req)
	assert.Equal(t, 404, resp.StatusCode)
}
