package auth

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticket-analytics/pkg/util/errorutil"
)

// APIKeyGuard protects maintenance endpoints with a pre-hashed API key.
// Only the bcrypt hash is configured; the plaintext key never touches disk.
type APIKeyGuard struct {
	keyHash string
}

// NewAPIKeyGuard constructs the guard from the configured bcrypt hash.
func NewAPIKeyGuard(keyHash string) *APIKeyGuard {
	return &APIKeyGuard{keyHash: keyHash}
}

// Handle verifies the X-API-Key header against the configured hash.
func (g *APIKeyGuard) Handle(c *fiber.Ctx) error {
	if g.keyHash == "" {
		return errorutil.NewUnauthorized("admin API key not configured")
	}
	key := c.Get("X-API-Key")
	if key == "" {
		return errorutil.NewUnauthorized("missing API key")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(g.keyHash), []byte(key)); err != nil {
		return errorutil.NewUnauthorized("invalid API key")
	}
	return c.Next()
}
