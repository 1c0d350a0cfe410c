package handlers

import (
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetBoards(c *fiber.Ctx) error {
	list, err := h.svc.ListBoards(c.UserContext(), middleware.GetUserID(c), services.BoardFilter{
		Page:     page(c),
		Ordering: c.Query("ordering"),
	})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetBoard(c *fiber.Ctx) error {
	boardID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid board ID")
	}

	board, err := h.svc.GetBoard(c.UserContext(), middleware.GetUserID(c), boardID)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(board)
}

func (h *Handler) CreateBoard(c *fiber.Ctx) error {
	var req models.CreateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	board, err := h.svc.CreateBoard(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

func (h *Handler) UpdateBoard(c *fiber.Ctx) error {
	boardID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid board ID")
	}

	var req models.UpdateBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	board, err := h.svc.UpdateBoard(c.UserContext(), middleware.GetUserID(c), boardID, req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(board)
}

func (h *Handler) DeleteBoard(c *fiber.Ctx) error {
	boardID, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid board ID")
	}

	if err := h.svc.DeleteBoard(c.UserContext(), middleware.GetUserID(c), boardID); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
