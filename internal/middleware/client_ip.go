package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIP returns the address used to identify a caller. Without a proxy
// header, or when the peer is not a trusted proxy, it is the socket address.
// Behind a trusted proxy it is the right-most X-Forwarded-For hop, the one
// appended by that proxy; entries further left are client-supplied.
func ClientIP(c *fiber.Ctx) string {
	remote := c.Context().RemoteIP().String()
	if c.App().Config().ProxyHeader == "" || !c.IsProxyTrusted() {
		return remote
	}
	ips := c.IPs()
	for i := len(ips) - 1; i >= 0; i-- {
		if hop := strings.TrimSpace(ips[i]); hop != "" {
			return hop
		}
	}
	return remote
}
