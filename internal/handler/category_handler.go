package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	service service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: s}
}

// GetCategories lists categories with their product counts
// GET /api/v1/categories
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": categories})
}

func (h *CategoryHandler) GetCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return nil
	}

	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": category})
}

func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var in service.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}

	category, err := h.service.CreateCategory(c.UserContext(), getActor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Category created", "data": category})
}

func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return nil
	}

	var in service.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}

	category, err := h.service.UpdateCategory(c.UserContext(), getActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category updated", "data": category})
}

func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "category")
	if !ok {
		return nil
	}

	if err := h.service.DeleteCategory(c.UserContext(), getActor(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
