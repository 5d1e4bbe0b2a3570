package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shelfwise/internal/log"
	"shelfwise/internal/services"
)

type SalesHandler struct {
	Sales *services.SalesService
}

// GET /sales
func (h *SalesHandler) List(c *fiber.Ctx) error {
	records, err := h.Sales.ListSales()
	if err != nil {
		applog.Error(c, "sales.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load sales"})
	}
	total, err := h.Sales.TotalRevenue()
	if err != nil {
		applog.Error(c, "sales.total.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load sales"})
	}
	return render(c, "sales", fiber.Map{"Sales": records, "Total": total})
}
