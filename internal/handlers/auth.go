package handlers

import (
	"github.com/arnold/goalboards-api/internal/middleware"
	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	user, err := h.svc.Register(c.UserContext(), req)
	if err != nil {
		return h.writeError(c, err)
	}

	token, err := middleware.GenerateToken(h.secret, h.tokenTTL, user.ID, user.Username)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}
	verr := &services.ValidationError{}
	if req.Username == "" {
		verr.Add("username", "this field may not be blank")
	}
	if req.Password == "" {
		verr.Add("password", "this field may not be blank")
	}
	if err := verr.Err(); err != nil {
		return h.writeError(c, err)
	}

	user, err := h.svc.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return h.writeError(c, err)
	}

	token, err := middleware.GenerateToken(h.secret, h.tokenTTL, user.ID, user.Username)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(models.AuthResponse{
		Token: token,
		User:  *user,
	})
}

func (h *Handler) GetMe(c *fiber.Ctx) error {
	user, err := h.svc.Profile(c.UserContext(), middleware.GetUserID(c))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	user, err := h.svc.UpdateProfile(c.UserContext(), middleware.GetUserID(c), req)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(user)
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	if err := h.svc.ChangePassword(c.UserContext(), middleware.GetUserID(c), req); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req models.RegisterDeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	if err := h.svc.RegisterDeviceToken(c.UserContext(), middleware.GetUserID(c), req.Token); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Verify links a Telegram chat to the caller by its verification code.
func (h *Handler) Verify(c *fiber.Ctx) error {
	var req models.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return h.writeError(c, bodyError(err))
	}

	tg, err := h.svc.Verify(c.UserContext(), middleware.GetUserID(c), req.VerificationCode)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(tg)
}
