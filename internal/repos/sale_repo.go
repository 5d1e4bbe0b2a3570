package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"shelfwise/internal/domain"
)

// SaleRepo is the sole writer of sale rows. Inserts only happen inside
// the sale transaction, paired with the stock decrement; reads check
// their connection out through the bounded pool.
type SaleRepo struct{ pool *Pool }

func NewSaleRepo(pool *Pool) *SaleRepo { return &SaleRepo{pool: pool} }

// InsertTx writes one sale line. The timestamp is server-assigned by
// the schema default.
func (r *SaleRepo) InsertTx(tx *sqlx.Tx, s domain.Sale) error {
	_, err := tx.Exec(`
		INSERT INTO sales(transaction_id, customer_name, phone, book_id, book_name, quantity, unit_price)
		VALUES(?,?,?,?,?,?,?)
	`, s.TransactionID, s.CustomerName, s.Phone, s.BookID, s.BookName, s.Quantity, s.UnitPrice)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	return nil
}

// ListAll returns sale records newest first with computed line totals.
func (r *SaleRepo) ListAll() ([]domain.Sale, error) {
	var out []domain.Sale
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		err := sqlx.SelectContext(context.Background(), conn, &out, `
			SELECT id, transaction_id, customer_name, phone, COALESCE(book_id,'') AS book_id,
			       book_name, quantity, unit_price, (quantity * unit_price) AS total, created_at
			FROM sales
			ORDER BY datetime(created_at) DESC, id DESC
		`)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) TotalRevenue() (float64, error) {
	var total float64
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		err := sqlx.GetContext(context.Background(), conn, &total, `SELECT COALESCE(SUM(quantity * unit_price), 0) FROM sales`)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	return total, err
}

// CountForBook reports how many sale rows reference a book id.
func (r *SaleRepo) CountForBook(bookID string) (int, error) {
	var n int
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		err := sqlx.GetContext(context.Background(), conn, &n, `SELECT COUNT(*) FROM sales WHERE book_id = ?`, bookID)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
	return n, err
}
