package handlers

import (
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func goalFilter(c *fiber.Ctx) (services.GoalFilter, error) {
	f := services.GoalFilter{
		Page:     page(c),
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}
	verr := &services.ValidationError{}
	for _, raw := range queryList(c, "category") {
		id, err := uuid.Parse(raw)
		if err != nil {
			verr.Add("category", "invalid id "+raw)
			continue
		}
		f.CategoryIDs = append(f.CategoryIDs, id)
	}
	for _, raw := range queryList(c, "status") {
		status := models.GoalStatus(raw)
		if !status.Valid() {
			verr.Add("status", "unknown value "+raw)
			continue
		}
		f.Statuses = append(f.Statuses, status)
	}
	for _, raw := range queryList(c, "priority") {
		p, err := models.ParsePriority(raw)
		if err != nil {
			verr.Add("priority", "unknown value "+raw)
			continue
		}
		f.Priorities = append(f.Priorities, p)
	}
	var err error
	if f.DueFrom, err = queryDate(c, "due_date_from"); err != nil {
		verr.Add("due_date_from", "use YYYY-MM-DD or RFC3339")
	}
	if f.DueTo, err = queryDate(c, "due_date_to"); err != nil {
		verr.Add("due_date_to", "use YYYY-MM-DD or RFC3339")
	}
	return f, verr.Err()
}

func (h *Handler) GetGoals(c *fiber.Ctx) error {
	f, err := goalFilter(c)
	if err != nil {
		return h.writeError(c, err)
	}

	list, err := h.svc.ListGoals(c.UserContext(), middleware.GetUserID(c), f)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) GetGoal(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid goal ID")
	}

	goal, err := h.svc.GetGoal(c.UserContext(), middleware.GetUserID(c), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(goal)
}

func (h *Handler) CreateGoal(c *fiber.Ctx) error {
	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	goal, err := h.svc.CreateGoal(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid goal ID")
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	goal, err := h.svc.UpdateGoal(c.UserContext(), middleware.GetUserID(c), id, req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(goal)
}

// DeleteGoal archives the goal.
func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid goal ID")
	}

	if err := h.svc.DeleteGoal(c.UserContext(), middleware.GetUserID(c), id); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
