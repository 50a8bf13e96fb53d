package handler

import (
	"go-pos-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// GetTransactions lists sale history, newest first.
// Query params: search, status, date_from, date_to (YYYY-MM-DD), user_id, page, per_page
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return respondError(c, err)
	}
	page, perPage := pageParams(c)

	rows, total, err := h.service.ListTransactions(c.UserContext(), service.TransactionQuery{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
		UserID:   userID,
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": rows,
		"meta": newPageMeta(page, perPage, total),
	})
}

// GetTransaction returns one sale with its items (the receipt view)
// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c, "id", "transaction")
	if !ok {
		return nil
	}

	trx, err := h.service.GetTransaction(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": trx})
}
