package handlers

import (
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetCategories(c *fiber.Ctx) error {
	boardID, err := queryUUID(c, "board")
	if err != nil {
		return h.writeError(c, err)
	}
	userID, err := queryUUID(c, "user")
	if err != nil {
		return h.writeError(c, err)
	}

	list, err := h.svc.ListCategories(c.UserContext(), middleware.GetUserID(c), services.CategoryFilter{
		Page:     page(c),
		BoardID:  boardID,
		UserID:   userID,
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetCategory(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	category, err := h.svc.GetCategory(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(category)
}

func (h *Handler) CreateCategory(c *fiber.Ctx) error {
	var req models.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	category, err := h.svc.CreateCategory(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *Handler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	var req models.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	category, err := h.svc.UpdateCategory(c.UserContext(), middleware.GetUserID(c), id, req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(category)
}

func (h *Handler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	if err := h.svc.DeleteCategory(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
