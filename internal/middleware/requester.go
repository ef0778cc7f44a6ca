package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jetharam07/payledger/internal/auth"
)

const (
	requesterKey    = "requester"
	requesterHeader = "X-Requester"
)

// Requester resolves the caller identity for every request and stores it in
// Locals. A bearer token matching the configured owner token resolves to the
// owner identity; anyone else identifies through the X-Requester header.
// Authorization itself stays with the access gateway downstream.
func Requester(ownerToken *auth.OwnerToken) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if authz := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			token := strings.TrimSpace(authz[len("Bearer "):])
			if owner, ok := ownerToken.Resolve(token); ok {
				c.Locals(requesterKey, owner)
				return c.Next()
			}
		}

		if requester := strings.TrimSpace(c.Get(requesterHeader)); requester != "" {
			// The header may not claim the owner identity once token auth is
			// configured; only the bearer token resolves to the owner.
			if ownerToken.Enabled() && requester == ownerToken.Owner() {
				return fiber.NewError(http.StatusUnauthorized, "owner identity requires bearer token")
			}
			c.Locals(requesterKey, requester)
		}
		return c.Next()
	}
}
