package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/httpx"
)

// OriginAllowed rejects browser requests whose Origin header is not in the
// allow list. Requests without an Origin header (curl, health probes) and
// an empty allow list both pass.
func OriginAllowed(allowed []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := strings.TrimSpace(c.Get("Origin"))
		if origin == "" || len(allowed) == 0 {
			return c.Next()
		}
		for _, a := range allowed {
			if a == origin {
				return c.Next()
			}
		}
		return httpx.Forbidden(c, "forbidden_origin", "Origin not allowed")
	}
}
