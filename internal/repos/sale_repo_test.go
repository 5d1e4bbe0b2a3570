package repos_test

import (
	"errors"
	"testing"

	"shelfwise/internal/domain"
	"shelfwise/internal/repos"
)

func TestInsertAndListSales(t *testing.T) {
	db := memdb(t)
	sales := repos.NewSaleRepo(repos.NewPool(db))

	tx, err := db.Beginx()
	if err != nil {
		t.Fatal(err)
	}
	s := domain.Sale{
		TransactionID: "TXN-20260831-1234",
		CustomerName:  "Asha Rao",
		Phone:         "9876543210",
		BookID:        "B001",
		BookName:      "The Go Programming Language",
		Quantity:      2,
		UnitPrice:     480,
	}
	if err := sales.InsertTx(tx, s); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	records, err := sales.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 row, got %d", len(records))
	}
	if records[0].Total != 960 {
		t.Fatalf("want computed total 960, got %v", records[0].Total)
	}

	total, err := sales.TotalRevenue()
	if err != nil {
		t.Fatal(err)
	}
	if total != 960 {
		t.Fatalf("want revenue 960, got %v", total)
	}

	n, err := sales.CountForBook("B001")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 row for B001, got %d", n)
	}
}

func TestSaleReadsWrapDriverErrors(t *testing.T) {
	db := memdb(t)
	sales := repos.NewSaleRepo(repos.NewPool(db))

	if _, err := db.Exec(`DROP TABLE sales`); err != nil {
		t.Fatal(err)
	}

	if _, err := sales.ListAll(); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("ListAll: want ErrPersistence, got %v", err)
	}
	if _, err := sales.TotalRevenue(); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("TotalRevenue: want ErrPersistence, got %v", err)
	}
}
