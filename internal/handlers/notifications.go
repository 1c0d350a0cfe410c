package handlers

import (
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the caller's notifications, newest first.
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	list, err := h.svc.ListNotifications(c.UserContext(), middleware.GetUserID(c), page(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid notification ID")
	}

	if err := h.svc.MarkNotificationRead(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.svc.MarkAllRead(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "updated": n})
}
