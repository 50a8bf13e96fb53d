package handler

import (
	"context"
	"errors"
	"strconv"

	"go-pos-inventory/internal/apperrors"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service errors onto status codes. Anything unrecognised
// is logged and reported as a generic 500 so driver details never leak.
func respondError(c *fiber.Ctx, err error) error {
	var (
		verr  *apperrors.ValidationError
		stock *apperrors.InsufficientStockError
	)

	switch {
	case errors.As(err, &verr):
		body := fiber.Map{"error": verr.Message}
		if verr.Field != "" {
			body["field"] = verr.Field
			body["error"] = verr.Error()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)

	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      stock.Error(),
			"product_id": stock.ProductID,
			"available":  stock.Available,
			"requested":  stock.Requested,
		})

	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, apperrors.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionReplaced),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrMissingToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrUserInactive):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, service.ErrWrongPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(fiber.Map{"error": "Request cancelled"})
	}

	middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func badJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
}

// getActor reads the identity RequireAuth stored in Locals.
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if raw, ok := c.Locals("user_id").(string); ok {
		actor.ID, _ = uuid.Parse(raw)
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	return actor
}

// parseID reads a uuid path param; ok is false when a 400 was already written.
func parseID(c *fiber.Ctx, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}

// pageMeta describes one page of a paginated list.
type pageMeta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func pageParams(c *fiber.Ctx) (int, int) {
	return repository.NormalizePage(c.QueryInt("page", 1), c.QueryInt("per_page", repository.DefaultPerPage))
}

func newPageMeta(page, perPage int, total int64) pageMeta {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return pageMeta{Page: page, PerPage: perPage, Total: total, TotalPages: pages}
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Validation(key, key+" must be a valid UUID")
	}
	return &id, nil
}

func queryBool(c *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(c.Query(key))
	return v
}
