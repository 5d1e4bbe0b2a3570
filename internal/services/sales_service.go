package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jmoiron/sqlx"

	"shelfwise/internal/cache"
	"shelfwise/internal/domain"
	"shelfwise/internal/repos"
	"shelfwise/internal/validate"
)

// SaleLine is one requested line item of a sale.
type SaleLine struct {
	BookID   string
	Quantity int
}

// SaleReceipt summarizes a completed sale transaction.
type SaleReceipt struct {
	TransactionID string
	Lines         int
	Total         float64
}

// SalesService owns the sale flow: validate, look up, decrement stock
// and record the sale as one transaction, then drop cache entries.
type SalesService struct {
	Pool  *repos.Pool
	Books *repos.BookRepo
	Sales *repos.SaleRepo
	Cache *cache.BookCache
}

func NewSalesService(pool *repos.Pool, books *repos.BookRepo, sales *repos.SaleRepo, bookCache *cache.BookCache) *SalesService {
	return &SalesService{Pool: pool, Books: books, Sales: sales, Cache: bookCache}
}

// RecordSale sells one or more books to a customer in a single
// transaction. All lines share a generated transaction id. Validation
// failures reject the request before any cache or database access;
// stock or persistence failures roll the whole sale back.
func (s *SalesService) RecordSale(customer, phone string, lines []SaleLine) (SaleReceipt, error) {
	customer, ok := validate.Name(customer)
	if !ok {
		return SaleReceipt{}, fmt.Errorf("%w: customer name is required", domain.ErrInvalidInput)
	}
	phone, ok = validate.Phone(phone)
	if !ok {
		return SaleReceipt{}, fmt.Errorf("%w: phone number must be exactly 10 digits", domain.ErrInvalidInput)
	}
	if len(lines) == 0 {
		return SaleReceipt{}, fmt.Errorf("%w: at least one book is required", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(lines))
	for _, ln := range lines {
		if ln.BookID == "" {
			return SaleReceipt{}, fmt.Errorf("%w: book id is required", domain.ErrInvalidInput)
		}
		if ln.Quantity <= 0 {
			return SaleReceipt{}, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrInvalidInput)
		}
		if seen[ln.BookID] {
			return SaleReceipt{}, fmt.Errorf("%w: book %s listed twice", domain.ErrInvalidInput, ln.BookID)
		}
		seen[ln.BookID] = true
	}

	conn, err := s.Pool.Acquire()
	if err != nil {
		return SaleReceipt{}, err
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(context.Background(), nil)
	if err != nil {
		return SaleReceipt{}, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	defer func() { _ = tx.Rollback() }()

	txnID := newTransactionID()
	total := 0.0
	for _, ln := range lines {
		book, err := s.lookup(tx, ln.BookID)
		if err != nil {
			return SaleReceipt{}, err
		}
		// The guarded decrement is the authoritative stock check; the
		// lookup above only supplies price and name.
		if err := s.Books.AdjustQuantityTx(tx, ln.BookID, -ln.Quantity); err != nil {
			return SaleReceipt{}, err
		}
		if err := s.Sales.InsertTx(tx, domain.Sale{
			TransactionID: txnID,
			CustomerName:  customer,
			Phone:         phone,
			BookID:        book.ID,
			BookName:      book.Name,
			Quantity:      ln.Quantity,
			UnitPrice:     book.Price,
		}); err != nil {
			return SaleReceipt{}, err
		}
		total += float64(ln.Quantity) * book.Price
	}

	if err := tx.Commit(); err != nil {
		return SaleReceipt{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	for _, ln := range lines {
		s.Cache.Invalidate(ln.BookID)
	}
	return SaleReceipt{TransactionID: txnID, Lines: len(lines), Total: total}, nil
}

// lookup resolves a book via the cache, falling through to the sale's
// own transaction on a miss (a separate pooled read here could starve
// a size-one pool).
func (s *SalesService) lookup(tx *sqlx.Tx, id string) (domain.Book, error) {
	if b, ok := s.Cache.Get(id); ok {
		return b, nil
	}
	b, err := s.Books.GetByIDTx(tx, id)
	if err != nil {
		return domain.Book{}, err
	}
	s.Cache.Put(b)
	return b, nil
}

func (s *SalesService) ListSales() ([]domain.Sale, error) {
	return s.Sales.ListAll()
}

func (s *SalesService) TotalRevenue() (float64, error) {
	return s.Sales.TotalRevenue()
}

// newTransactionID yields ids like TXN-20260831-4217: one per sale
// submission, shared by every line in it.
func newTransactionID() string {
	return fmt.Sprintf("TXN-%s-%04d", time.Now().Format("20060102"), rand.IntN(9000)+1000)
}
