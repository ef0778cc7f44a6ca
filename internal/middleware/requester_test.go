package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/jetharam07/payledger/internal/auth"
)

func requesterApp(t *testing.T, ownerToken *auth.OwnerToken) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(Requester(ownerToken))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		requester, _ := c.Locals(requesterKey).(string)
		return c.SendString(requester)
	})
	return app
}

func TestRequesterFromHeader(t *testing.T) {
	app := requesterApp(t, auth.NewOwnerToken("0xowner", ""))

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("X-Requester", "alice")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "alice" {
		t.Fatalf("expected alice, got %q", body)
	}
}

func TestRequesterOwnerViaBearerToken(t *testing.T) {
	hash, err := auth.HashToken("s3cret")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	app := requesterApp(t, auth.NewOwnerToken("0xowner", hash))

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer s3cret")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "0xowner" {
		t.Fatalf("expected owner identity, got %q", body)
	}
}

func TestRequesterHeaderCannotClaimOwner(t *testing.T) {
	hash, err := auth.HashToken("s3cret")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	app := requesterApp(t, auth.NewOwnerToken("0xowner", hash))

	req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
	req.Header.Set("X-Requester", "0xowner")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for spoofed owner header, got %d", resp.StatusCode)
	}
}
