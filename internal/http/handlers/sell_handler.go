package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"shelfwise/internal/domain"
	applog "shelfwise/internal/log"
	"shelfwise/internal/services"
)

type SellHandler struct {
	Inv   *services.InventoryService
	Sales *services.SalesService
}

// GET /sell
func (h *SellHandler) Form(c *fiber.Ctx) error {
	books, err := h.Inv.ListInStock()
	if err != nil {
		applog.Error(c, "sell.form.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load books"})
	}
	return render(c, "sell", fiber.Map{"Books": books, "Err": "", "Msg": ""})
}

// POST /sell
//
// The form may carry several book_id/quantity pairs; blank pairs are
// skipped, the rest become one transaction.
func (h *SellHandler) Sell(c *fiber.Ctx) error {
	customer := strings.TrimSpace(c.FormValue("customer_name"))
	phone := strings.TrimSpace(c.FormValue("phone_number"))
	lines := parseSaleLines(c)

	receipt, err := h.Sales.RecordSale(customer, phone, lines)
	if err != nil {
		return h.sellError(c, err)
	}

	applog.Audit(c, "sale.record", map[string]any{
		"transaction_id": receipt.TransactionID,
		"lines":          receipt.Lines,
		"total":          receipt.Total,
	})
	msg := fmt.Sprintf("Sale completed successfully! Transaction %s, total %.2f", receipt.TransactionID, receipt.Total)
	return h.renderForm(c, fiber.StatusOK, msg, "")
}

func (h *SellHandler) sellError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		applog.Security(c, "sale.validation.fail", map[string]any{"error": err.Error()})
		return h.renderForm(c, fiber.StatusBadRequest, "", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return h.renderForm(c, fiber.StatusNotFound, "", "Book not found. Please check the book ID.")
	case errors.Is(err, domain.ErrInsufficientStock):
		return h.renderForm(c, fiber.StatusConflict, "", "Insufficient stock for the requested quantity.")
	case errors.Is(err, domain.ErrPoolExhausted), errors.Is(err, domain.ErrConnection):
		applog.Error(c, "sale.unavailable", err, nil)
		return h.renderForm(c, fiber.StatusServiceUnavailable, "", "Service temporarily unavailable. Please try again.")
	default:
		applog.Error(c, "sale.record.fail", err, nil)
		return h.renderForm(c, fiber.StatusInternalServerError, "", "Error processing sale. Please try again.")
	}
}

func (h *SellHandler) renderForm(c *fiber.Ctx, status int, msg, errMsg string) error {
	books, err := h.Inv.ListInStock()
	if err != nil {
		applog.Error(c, "sell.form.fail", err, nil)
		books = nil
	}
	return c.Status(status).Render("sell", fiber.Map{"Books": books, "Msg": msg, "Err": errMsg, "CSRFToken": csrfToken(c)})
}

func csrfToken(c *fiber.Ctx) string {
	if tok, _ := c.Locals("CSRFToken").(string); tok != "" {
		return tok
	}
	return c.Cookies("csrf_")
}

func parseSaleLines(c *fiber.Ctx) []services.SaleLine {
	args := c.Request().PostArgs()
	ids := args.PeekMulti("book_id")
	qtys := args.PeekMulti("quantity")

	var lines []services.SaleLine
	for i, raw := range ids {
		id := strings.TrimSpace(string(raw))
		qty := ""
		if i < len(qtys) {
			qty = strings.TrimSpace(string(qtys[i]))
		}
		if id == "" && qty == "" {
			continue // blank row in the form
		}
		n, err := strconv.Atoi(qty)
		if err != nil {
			n = 0 // rejected by the recorder's validation
		}
		lines = append(lines, services.SaleLine{BookID: id, Quantity: n})
	}
	return lines
}
