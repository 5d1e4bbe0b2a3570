package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "shelfwise/internal/log"
	"shelfwise/internal/services"
)

type DashboardHandler struct {
	Inv *services.InventoryService
}

// GET /dashboard
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	stats, err := h.Inv.Stats()
	if err != nil {
		applog.Error(c, "dashboard.stats.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load dashboard"})
	}
	return render(c, "dashboard", fiber.Map{"Stats": stats})
}
