package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"shelfwise/internal/domain"
	applog "shelfwise/internal/log"
	"shelfwise/internal/services"
	"shelfwise/internal/validate"
)

type StockHandler struct {
	Inv *services.InventoryService
}

// GET /stock
func (h *StockHandler) List(c *fiber.Ctx) error {
	books, err := h.Inv.ListStock()
	if err != nil {
		applog.Error(c, "stock.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load stock"})
	}
	return render(c, "stock", fiber.Map{"Books": books, "Msg": c.Query("msg"), "Err": c.Query("err")})
}

// GET /stock/add
func (h *StockHandler) AddForm(c *fiber.Ctx) error {
	return render(c, "add_book", fiber.Map{"Err": ""})
}

// POST /stock/add
func (h *StockHandler) Add(c *fiber.Ctx) error {
	id, okID := validate.BookID(c.FormValue("book_id"))
	name, okName := validate.Name(c.FormValue("book_name"))
	qty, okQty := validate.Units(c.FormValue("quantity"))
	price, okPrice := validate.Price(c.FormValue("price"))
	if !okID || !okName || !okQty || !okPrice {
		applog.Security(c, "validation.fail", map[string]any{"form": "add_book"})
		return c.Status(fiber.StatusBadRequest).Render("add_book", fiber.Map{"Err": "Book ID, Name, Quantity and Price are required and must be valid."})
	}

	book := domain.Book{
		ID:        id,
		Name:      name,
		Genre:     c.FormValue("genre"),
		Author:    c.FormValue("author"),
		Publisher: c.FormValue("publisher"),
		Price:     price,
		Quantity:  qty,
	}
	if err := h.Inv.AddBook(book); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateID):
			return c.Status(fiber.StatusConflict).Render("add_book", fiber.Map{"Err": fmt.Sprintf("Book with ID %s already exists.", id)})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).Render("add_book", fiber.Map{"Err": "Invalid book details."})
		default:
			applog.Error(c, "stock.add.fail", err, map[string]any{"book_id": id})
			return c.Status(500).Render("add_book", fiber.Map{"Err": "Error adding book. Please try again."})
		}
	}

	applog.Audit(c, "stock.add", map[string]any{"book_id": id, "qty": qty})
	return c.Redirect("/stock?msg=" + url.QueryEscape("Book added successfully"))
}

// POST /stock/update
func (h *StockHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.BookID(c.FormValue("book_id"))
	action, okAction := validate.Action(c.FormValue("action"))
	qty, okQty := validate.Qty(c.FormValue("quantity"))
	if !okID || !okAction || !okQty {
		applog.Security(c, "validation.fail", map[string]any{"form": "stock_update"})
		return c.Redirect("/stock?err=" + url.QueryEscape("Invalid book id, action or quantity"))
	}

	if err := h.Inv.Restock(id, action, qty); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Redirect("/stock?err=" + url.QueryEscape(fmt.Sprintf("Book with ID %s not found", id)))
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Redirect("/stock?err=" + url.QueryEscape("Cannot subtract more than available quantity"))
		default:
			applog.Error(c, "stock.update.fail", err, map[string]any{"book_id": id, "action": action, "qty": qty})
			return c.Redirect("/stock?err=" + url.QueryEscape("Error updating stock"))
		}
	}

	applog.Audit(c, "stock.update", map[string]any{"book_id": id, "action": action, "qty": qty})
	return c.Redirect("/stock?msg=" + url.QueryEscape("Stock updated successfully"))
}
