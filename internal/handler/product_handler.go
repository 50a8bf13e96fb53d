package handler

import (
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	service service.CatalogService
}

func NewProductHandler(s service.CatalogService) *ProductHandler {
	return &ProductHandler{service: s}
}

// productFilter reads ?search, ?category_id, ?low_stock, ?active_only and paging.
func productFilter(c *fiber.Ctx) (repository.ProductFilter, error) {
	categoryID, err := queryUUID(c, "category_id")
	if err != nil {
		return repository.ProductFilter{}, err
	}
	page, perPage := pageParams(c)
	return repository.ProductFilter{
		Search:     c.Query("search"),
		CategoryID: categoryID,
		LowStock:   queryBool(c, "low_stock"),
		ActiveOnly: queryBool(c, "active_only"),
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// GetProducts lists the catalog for back-office screens
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	products, total, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": model.ToProductResponses(products),
		"meta": newPageMeta(filter.Page, filter.PerPage, total),
	})
}

// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return nil
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": product.ToResponse()})
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}

	product, err := h.service.CreateProduct(c.UserContext(), getActor(c), in)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product.ToResponse()})
}

// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return nil
	}

	var in service.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badJSON(c)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), getActor(c), id, in)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product updated", "data": product.ToResponse()})
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "product")
	if !ok {
		return nil
	}

	if err := h.service.DeleteProduct(c.UserContext(), getActor(c), id); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Product deleted"})
}
