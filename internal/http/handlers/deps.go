package handlers

import (
	"shelfwise/internal/cache"
	"shelfwise/internal/config"
	"shelfwise/internal/repos"
	"shelfwise/internal/services"
)

type Deps struct {
	DashboardHandler *DashboardHandler
	StockHandler     *StockHandler
	SellHandler      *SellHandler
	SalesHandler     *SalesHandler
	BookAPIHandler   *BookAPIHandler
	Pool             *repos.Pool
}

func NewDeps(pool *repos.Pool, cfg config.Config, auth *services.AuthService) *Deps {
	bookCache := cache.New(cfg.CacheTTL)

	bookRepo := repos.NewBookRepo(pool, bookCache)
	saleRepo := repos.NewSaleRepo(pool)

	invSvc := services.NewInventoryService(bookRepo, saleRepo, bookCache)
	salesSvc := services.NewSalesService(pool, bookRepo, saleRepo, bookCache)

	return &Deps{
		DashboardHandler: &DashboardHandler{Inv: invSvc},
		StockHandler:     &StockHandler{Inv: invSvc},
		SellHandler:      &SellHandler{Inv: invSvc, Sales: salesSvc},
		SalesHandler:     &SalesHandler{Sales: salesSvc},
		BookAPIHandler:   &BookAPIHandler{Inv: invSvc},
		Pool:             pool,
	}
}
