package middleware

import (
	"github.com/gofiber/fiber/v2"

	"aide-sociale/internal/domain"
)

const maxUserAgentLength = 512

// InteractionMeta captures the client details recorded with read and click events.
func InteractionMeta(c *fiber.Ctx) domain.InteractionMeta {
	var meta domain.InteractionMeta

	if ua := c.Get(fiber.HeaderUserAgent); ua != "" {
		if len(ua) > maxUserAgentLength {
			ua = ua[:maxUserAgentLength]
		}
		meta.UserAgent = &ua
	}

	ip := c.IP()
	if ips := c.IPs(); len(ips) > 0 {
		ip = ips[0]
	}
	if ip != "" {
		meta.IPAddress = &ip
	}

	return meta
}
