package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/echotube/echotube/pkg/session"
)

// sessionFromRequest extracts and verifies the session token. The cookie is
// the primary carrier; a bearer token is accepted for non-browser clients.
func (s *Server) sessionFromRequest(c fiber.Ctx) (*session.Session, error) {
	raw := c.Cookies(s.cookieName)

	if raw == "" {
		header := c.Get(fiber.HeaderAuthorization)
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			raw = after
		}
	}

	return s.sessions.Parse(raw)
}
