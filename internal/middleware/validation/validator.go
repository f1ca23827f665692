package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Config struct {
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware rejects malformed project ids and unexpected content types
// before requests reach the handlers.
func Middleware(cfg Config) fiber.Handler {
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" || c.Method() == "PUT" {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		if id := c.Params("id"); id != "" && !projectIDPattern.MatchString(id) {
			cfg.Logger.Warn("Rejected malformed project id",
				zap.String("ip", c.IP()),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid project id",
			})
		}

		return c.Next()
	}
}
