package main

import (
	"net/http/httptest"
	"testing"
	"time"

	"pantry/config"
	"pantry/middleware"
	"pantry/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeProtectedApp() *fiber.App {
	app := fiber.New()
	app.Use(middleware.JWTMiddleware)
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(200).SendString(c.Locals("userID").(string))
	})
	return app
}

func signToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	app := makeProtectedApp()
	req := httptest.NewRequest("GET", "/test", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without Authorization header, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_MalformedHeader(t *testing.T) {
	app := makeProtectedApp()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for malformed header, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_WrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "right-secret"
	app := makeProtectedApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "user-1"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for token signed with the wrong secret, got %d", resp.StatusCode)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "right-secret"
	app := makeProtectedApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "right-secret", "user-1"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 for a valid token, got %d", resp.StatusCode)
	}
}
