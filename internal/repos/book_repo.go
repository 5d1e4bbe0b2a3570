package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"shelfwise/internal/cache"
	"shelfwise/internal/domain"
)

// BookRepo is the sole writer of book rows. Every call checks its
// connection out through the bounded pool, and every successful write
// drops the cache entry for the touched id; the row stays the source
// of truth.
type BookRepo struct {
	pool  *Pool
	cache *cache.BookCache
}

func NewBookRepo(pool *Pool, c *cache.BookCache) *BookRepo {
	return &BookRepo{pool: pool, cache: c}
}

const bookCols = `id, name, COALESCE(genre,'') AS genre, COALESCE(author,'') AS author,
  COALESCE(publisher,'') AS publisher, price, quantity,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *BookRepo) GetByID(id string) (domain.Book, error) {
	var b domain.Book
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		var err error
		b, err = r.get(conn, id)
		return err
	})
	return b, err
}

// GetByIDTx reads through a caller-owned transaction so the sale flow
// never needs a second pooled connection.
func (r *BookRepo) GetByIDTx(tx *sqlx.Tx, id string) (domain.Book, error) {
	return r.get(tx, id)
}

func (r *BookRepo) get(e sqlx.QueryerContext, id string) (domain.Book, error) {
	var b domain.Book
	err := sqlx.GetContext(context.Background(), e, &b, `SELECT `+bookCols+` FROM books WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Book{}, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return b, nil
}

// Create inserts a new book. The identifier is caller-supplied and
// immutable; an existing id fails with domain.ErrDuplicateID.
func (r *BookRepo) Create(b domain.Book) error {
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(context.Background(), `
			INSERT INTO books(id,name,genre,author,publisher,price,quantity)
			VALUES(?,?,?,?,?,?,?)
		`, b.ID, b.Name, b.Genre, b.Author, b.Publisher, b.Price, b.Quantity)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				return domain.ErrDuplicateID
			}
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.cache.Invalidate(b.ID)
	return nil
}

// AdjustQuantity applies quantity += delta (negative for sales,
// positive for restock) as a single guarded UPDATE, so two concurrent
// adjustments on the same id can never drive stock negative.
func (r *BookRepo) AdjustQuantity(id string, delta int) error {
	return r.pool.WithConn(func(conn *sqlx.Conn) error {
		return r.adjust(conn, id, delta)
	})
}

// AdjustQuantityTx is AdjustQuantity inside a caller-owned transaction
// (the sale flow pairs it with the sale insert).
func (r *BookRepo) AdjustQuantityTx(tx *sqlx.Tx, id string, delta int) error {
	return r.adjust(tx, id, delta)
}

func (r *BookRepo) adjust(e interface {
	sqlx.ExecerContext
	sqlx.QueryerContext
}, id string, delta int) error {
	res, err := e.ExecContext(context.Background(), `
		UPDATE books
		SET quantity = quantity + ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity + ? >= 0
	`, delta, id, delta)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// The guard rejected the update: missing row or not enough stock.
		var exists int
		if err := sqlx.GetContext(context.Background(), e, &exists, `SELECT COUNT(*) FROM books WHERE id = ?`, id); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	r.cache.Invalidate(id)
	return nil
}

// ListAll returns the whole inventory grouped by genre then name.
func (r *BookRepo) ListAll() ([]domain.Book, error) {
	return r.list(`SELECT ` + bookCols + ` FROM books ORDER BY genre, name`)
}

// ListInStock backs the sell form: only books with units on hand.
func (r *BookRepo) ListInStock() ([]domain.Book, error) {
	return r.list(`SELECT ` + bookCols + ` FROM books WHERE quantity > 0 ORDER BY genre, name`)
}

func (r *BookRepo) list(query string) ([]domain.Book, error) {
	var out []domain.Book
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		if err := sqlx.SelectContext(context.Background(), conn, &out, query); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	return out, err
}

// Stats covers the book side of the dashboard. Revenue lives with the
// sale rows; callers merge it in from SaleRepo.
func (r *BookRepo) Stats() (domain.DashboardStats, error) {
	var s domain.DashboardStats
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		ctx := context.Background()
		if err := sqlx.GetContext(ctx, conn, &s.TotalBooks, `SELECT COUNT(*) FROM books`); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		if err := sqlx.GetContext(ctx, conn, &s.LowStock, `SELECT COUNT(*) FROM books WHERE quantity < 10`); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	return s, err
}
