package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"shelfwise/internal/domain"
	"shelfwise/internal/services"
	"shelfwise/internal/validate"
)

type BookAPIHandler struct {
	Inv *services.InventoryService
}

// GET /api/v1/book/:id
//
// JSON book details for the sell form; rides the read-through cache.
func (h *BookAPIHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.BookID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid book id"})
	}

	book, err := h.Inv.GetBook(id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "book not found"})
	case errors.Is(err, domain.ErrConnection), errors.Is(err, domain.ErrPoolExhausted):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "temporarily unavailable, retry soon"})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	return c.JSON(book)
}
