package handlers

import (
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetComments(c *fiber.Ctx) error {
	goalID, err := queryUUID(c, "goal")
	if err != nil {
		return h.writeError(c, err)
	}

	list, err := h.svc.ListComments(c.UserContext(), middleware.GetUserID(c), services.CommentFilter{
		Page:     page(c),
		GoalID:   goalID,
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetComment(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid comment ID")
	}

	comment, err := h.svc.GetComment(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(comment)
}

func (h *Handler) AddComment(c *fiber.Ctx) error {
	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	comment, err := h.svc.CreateComment(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *Handler) UpdateComment(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	comment, err := h.svc.UpdateComment(c.UserContext(), middleware.GetUserID(c), id, req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(comment)
}

func (h *Handler) DeleteComment(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid comment ID")
	}

	if err := h.svc.DeleteComment(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
