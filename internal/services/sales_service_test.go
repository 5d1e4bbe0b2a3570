package services_test

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"shelfwise/internal/cache"
	"shelfwise/internal/domain"
	"shelfwise/internal/repos"
	"shelfwise/internal/services"
)

// transaction ids carry the sale date and a 4-digit suffix
var reTxnID = regexp.MustCompile(`^TXN-\d{8}-\d{4}$`)

type salesEnv struct {
	inv   *services.InventoryService
	svc   *services.SalesService
	books *repos.BookRepo
	sales *repos.SaleRepo
	cache *cache.BookCache
}

func newSales(t *testing.T) salesEnv {
	t.Helper()
	db := memdb(t)
	c := cache.New(5 * time.Minute)
	pool := repos.NewPool(db)
	books := repos.NewBookRepo(pool, c)
	salesRepo := repos.NewSaleRepo(pool)
	return salesEnv{
		inv:   services.NewInventoryService(books, salesRepo, c),
		svc:   services.NewSalesService(pool, books, salesRepo, c),
		books: books,
		sales: salesRepo,
		cache: c,
	}
}

func TestRecordSale(t *testing.T) {
	env := newSales(t)

	if err := env.inv.AddBook(domain.Book{ID: "B010", Name: "Clean Code", Genre: "Programming", Price: 100, Quantity: 10}); err != nil {
		t.Fatal(err)
	}

	receipt, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{{BookID: "B010", Quantity: 4}})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if receipt.Total != 400 {
		t.Fatalf("want total 400, got %v", receipt.Total)
	}
	if receipt.Lines != 1 {
		t.Fatalf("want 1 line, got %d", receipt.Lines)
	}
	if !reTxnID.MatchString(receipt.TransactionID) {
		t.Fatalf("unexpected transaction id %q", receipt.TransactionID)
	}

	b, _ := env.books.GetByID("B010")
	if b.Quantity != 6 {
		t.Fatalf("want stock 6 after selling 4 of 10, got %d", b.Quantity)
	}

	records, err := env.sales.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 sale row, got %d", len(records))
	}
	r := records[0]
	if r.TransactionID != receipt.TransactionID || r.CustomerName != "Asha Rao" || r.Phone != "9876543210" {
		t.Fatalf("sale row mismatch: %+v", r)
	}
	if r.BookName != "Clean Code" || r.Quantity != 4 || r.UnitPrice != 100 || r.Total != 400 {
		t.Fatalf("sale line mismatch: %+v", r)
	}

	total, err := env.svc.TotalRevenue()
	if err != nil {
		t.Fatal(err)
	}
	if total != 400 {
		t.Fatalf("want revenue 400, got %v", total)
	}
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	env := newSales(t)

	// B004 is seeded with 3 on hand
	_, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{{BookID: "B004", Quantity: 4}})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	b, _ := env.books.GetByID("B004")
	if b.Quantity != 3 {
		t.Fatalf("failed sale must not change stock, got %d", b.Quantity)
	}
	if n, _ := env.sales.CountForBook("B004"); n != 0 {
		t.Fatalf("failed sale must not leave rows, got %d", n)
	}
}

func TestRecordSaleUnknownBook(t *testing.T) {
	env := newSales(t)

	_, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{{BookID: "NOPE", Quantity: 1}})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	env := newSales(t)

	one := []services.SaleLine{{BookID: "B001", Quantity: 1}}
	cases := []struct {
		name     string
		customer string
		phone    string
		lines    []services.SaleLine
	}{
		{"empty customer", "", "9876543210", one},
		{"short phone", "Asha Rao", "12345", one},
		{"phone with letters", "Asha Rao", "98765abc10", one},
		{"no lines", "Asha Rao", "9876543210", nil},
		{"zero quantity", "Asha Rao", "9876543210", []services.SaleLine{{BookID: "B001", Quantity: 0}}},
		{"negative quantity", "Asha Rao", "9876543210", []services.SaleLine{{BookID: "B001", Quantity: -2}}},
		{"blank book id", "Asha Rao", "9876543210", []services.SaleLine{{BookID: "", Quantity: 1}}},
		{"duplicate book", "Asha Rao", "9876543210", []services.SaleLine{{BookID: "B001", Quantity: 1}, {BookID: "B001", Quantity: 2}}},
	}
	for _, c := range cases {
		if _, err := env.svc.RecordSale(c.customer, c.phone, c.lines); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: want ErrInvalidInput, got %v", c.name, err)
		}
	}

	// nothing reached the database
	records, _ := env.sales.ListAll()
	if len(records) != 0 {
		t.Fatalf("rejected sales must not persist, got %d rows", len(records))
	}
	b, _ := env.books.GetByID("B001")
	if b.Quantity != 10 {
		t.Fatalf("rejected sales must not touch stock, got %d", b.Quantity)
	}
}

func TestRecordSaleMultipleLines(t *testing.T) {
	env := newSales(t)

	// B001 seeded 10 @ 480, B003 seeded 12 @ 299
	receipt, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{
		{BookID: "B001", Quantity: 2},
		{BookID: "B003", Quantity: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if receipt.Lines != 2 {
		t.Fatalf("want 2 lines, got %d", receipt.Lines)
	}
	if want := 2*480.0 + 299.0; receipt.Total != want {
		t.Fatalf("want total %v, got %v", want, receipt.Total)
	}

	records, _ := env.sales.ListAll()
	if len(records) != 2 {
		t.Fatalf("want 2 rows, got %d", len(records))
	}
	for _, r := range records {
		if r.TransactionID != receipt.TransactionID {
			t.Fatalf("lines must share the transaction id: %+v", r)
		}
	}

	if b, _ := env.books.GetByID("B001"); b.Quantity != 8 {
		t.Fatalf("B001 want 8, got %d", b.Quantity)
	}
	if b, _ := env.books.GetByID("B003"); b.Quantity != 11 {
		t.Fatalf("B003 want 11, got %d", b.Quantity)
	}
}

func TestRecordSaleRollsBackWholeTransaction(t *testing.T) {
	env := newSales(t)

	// second line oversells B004 (seeded 3), so the whole sale fails
	_, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{
		{BookID: "B001", Quantity: 2},
		{BookID: "B004", Quantity: 5},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	if b, _ := env.books.GetByID("B001"); b.Quantity != 10 {
		t.Fatalf("rolled-back line must not change stock, got %d", b.Quantity)
	}
	records, _ := env.sales.ListAll()
	if len(records) != 0 {
		t.Fatalf("rolled-back sale must not leave rows, got %d", len(records))
	}
}

func TestRecordSaleInvalidatesCache(t *testing.T) {
	env := newSales(t)

	if _, err := env.inv.GetBook("B001"); err != nil {
		t.Fatal(err)
	}
	if _, ok := env.cache.Get("B001"); !ok {
		t.Fatal("expected cache primed")
	}

	if _, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{{BookID: "B001", Quantity: 1}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := env.cache.Get("B001"); ok {
		t.Fatal("committed sale must drop the cached entry")
	}

	b, err := env.inv.GetBook("B001")
	if err != nil {
		t.Fatal(err)
	}
	if b.Quantity != 9 {
		t.Fatalf("next read must see decremented stock, got %d", b.Quantity)
	}
}

func TestStatsIncludeSalesRevenue(t *testing.T) {
	env := newSales(t)

	// B001 seeded 10 @ 480
	if _, err := env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{{BookID: "B001", Quantity: 2}}); err != nil {
		t.Fatal(err)
	}

	stats, err := env.inv.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalBooks != 4 {
		t.Fatalf("want 4 titles, got %d", stats.TotalBooks)
	}
	if stats.TotalRevenue != 960 {
		t.Fatalf("want revenue 960 from the sale rows, got %v", stats.TotalRevenue)
	}
	// B001 dropped to 8, joining B002 (7) and B004 (3)
	if stats.LowStock != 3 {
		t.Fatalf("want 3 low-stock titles, got %d", stats.LowStock)
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	env := newSales(t)

	if err := env.inv.AddBook(domain.Book{ID: "B020", Name: "Last Copy", Price: 50, Quantity: 5}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.svc.RecordSale("Asha Rao", "9876543210", []services.SaleLine{{BookID: "B020", Quantity: 5}})
		}(i)
	}
	wg.Wait()

	var okCount, shortCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case errors.Is(err, domain.ErrInsufficientStock):
			shortCount++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if okCount != 1 || shortCount != 1 {
		t.Fatalf("want exactly one winner, got ok=%d short=%d", okCount, shortCount)
	}

	b, _ := env.books.GetByID("B020")
	if b.Quantity != 0 {
		t.Fatalf("want stock 0, got %d", b.Quantity)
	}
	if n, _ := env.sales.CountForBook("B020"); n != 1 {
		t.Fatalf("want exactly 1 sale row, got %d", n)
	}
}
