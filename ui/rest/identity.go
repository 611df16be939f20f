package rest

import "github.com/gofiber/fiber/v2"

// currentUser is the authenticated identity: the basic-auth username stored
// by the auth middleware. All stores are scoped by it.
func currentUser(c *fiber.Ctx) string {
	if username, ok := c.Locals("username").(string); ok {
		return username
	}
	return ""
}
