package services

import (
	"fmt"

	"shelfwise/internal/cache"
	"shelfwise/internal/domain"
	"shelfwise/internal/repos"
)

type InventoryService struct {
	Books *repos.BookRepo
	Sales *repos.SaleRepo
	Cache *cache.BookCache
}

func NewInventoryService(books *repos.BookRepo, sales *repos.SaleRepo, bookCache *cache.BookCache) *InventoryService {
	return &InventoryService{Books: books, Sales: sales, Cache: bookCache}
}

// GetBook is the read-through path: cache hit wins, a miss falls
// through to the row and populates the cache.
func (s *InventoryService) GetBook(id string) (domain.Book, error) {
	if b, ok := s.Cache.Get(id); ok {
		return b, nil
	}
	b, err := s.Books.GetByID(id)
	if err != nil {
		return domain.Book{}, err
	}
	s.Cache.Put(b)
	return b, nil
}

// AddBook creates a new title. The id is caller-supplied and immutable.
func (s *InventoryService) AddBook(b domain.Book) error {
	if b.ID == "" || b.Name == "" {
		return fmt.Errorf("%w: book id and name are required", domain.ErrInvalidInput)
	}
	if b.Price < 0 || b.Quantity < 0 {
		return fmt.Errorf("%w: price and quantity must be non-negative", domain.ErrInvalidInput)
	}
	return s.Books.Create(b)
}

// Restock adjusts stock on the dedicated restock path: action is "add"
// or "subtract", qty strictly positive. Subtracting below zero fails
// with domain.ErrInsufficientStock and changes nothing.
func (s *InventoryService) Restock(id, action string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be greater than 0", domain.ErrInvalidInput)
	}
	delta := qty
	switch action {
	case "add":
	case "subtract":
		delta = -qty
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, action)
	}
	return s.Books.AdjustQuantity(id, delta)
}

func (s *InventoryService) ListStock() ([]domain.Book, error) {
	return s.Books.ListAll()
}

func (s *InventoryService) ListInStock() ([]domain.Book, error) {
	return s.Books.ListInStock()
}

// Stats merges the book-side counters with revenue from the sale rows.
func (s *InventoryService) Stats() (domain.DashboardStats, error) {
	stats, err := s.Books.Stats()
	if err != nil {
		return stats, err
	}
	revenue, err := s.Sales.TotalRevenue()
	if err != nil {
		return stats, err
	}
	stats.TotalRevenue = revenue
	return stats, nil
}
