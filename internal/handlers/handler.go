package handlers

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/arnold/goalboards-api/internal/models"
	"github.com/arnold/goalboards-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler serves the HTTP API on top of the services.
type Handler struct {
	svc      *services.Service
	log      zerolog.Logger
	secret   string
	tokenTTL time.Duration
}

func New(svc *services.Service, log zerolog.Logger, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, log: log, secret: jwtSecret, tokenTTL: tokenTTL}
}

// writeError maps service errors onto status codes.
func (h *Handler) writeError(c *fiber.Ctx, err error) error {
	var (
		perr *services.PermissionError
		verr *services.ValidationError
	)
	switch {
	case errors.Is(err, services.ErrAuthenticationRequired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	case errors.As(err, &perr):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": perr.Rule,
		})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": verr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Not found",
		})
	default:
		h.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// bodyError turns a BodyParser failure into a field error.
func bodyError(err error) error {
	var (
		ferr *models.FieldError
		terr *json.UnmarshalTypeError
	)
	verr := &services.ValidationError{}
	switch {
	case errors.As(err, &ferr):
		verr.Add(ferr.Field, ferr.Message)
	case errors.As(err, &terr) && terr.Field != "":
		verr.Add(terr.Field, "invalid type, expected "+terr.Type.String())
	default:
		verr.Add("non_field_errors", "invalid request body")
	}
	return verr
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

func page(c *fiber.Ctx) services.Page {
	return services.Page{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}

// queryList splits a comma separated query parameter.
func queryList(c *fiber.Ctx, key string) []string {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fieldError(key, "invalid id")
	}
	return &id, nil
}

func queryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fieldError(key, "use YYYY-MM-DD or RFC3339")
	}
	return &t, nil
}

func fieldError(field, msg string) *services.ValidationError {
	verr := &services.ValidationError{}
	verr.Add(field, msg)
	return verr
}
