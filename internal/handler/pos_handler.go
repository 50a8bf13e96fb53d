package handler

import (
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

// POSHandler serves the cashier screen: the sellable catalog and checkout.
type POSHandler struct {
	catalog service.CatalogService
	sales   service.SaleService
}

func NewPOSHandler(catalog service.CatalogService, sales service.SaleService) *POSHandler {
	return &POSHandler{catalog: catalog, sales: sales}
}

// GetProducts lists active products for the cart picker
// GET /api/v1/pos/products
func (h *POSHandler) GetProducts(c *fiber.Ctx) error {
	filter, err := productFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	products, total, err := h.catalog.ListPOSProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": model.ToProductResponses(products),
		"meta": newPageMeta(filter.Page, filter.PerPage, total),
	})
}

// Checkout records a sale for the authenticated cashier
// POST /api/v1/pos/checkout
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var req service.SaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}

	trx, err := h.sales.ProcessSale(c.UserContext(), getActor(c), req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Transaction completed successfully",
		"data":    trx,
	})
}
