package repos

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"shelfwise/internal/domain"
)

// OpenDB connects with the bounded retry policy, sizes the connection
// pool, and ensures schema plus baseline data. poolSize <= 0 falls back
// to the default of 10.
func OpenDB(dsn string, poolSize int) (*sqlx.DB, error) {
	var db *sqlx.DB
	err := ConnectRetry.Do(func() error {
		d, err := sqlx.Open("sqlite", dsn)
		if err != nil {
			return err
		}
		if err := d.Ping(); err != nil {
			_ = d.Close()
			return err
		}
		db = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}

	if poolSize <= 0 {
		poolSize = 10
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo books if the table is empty, and make sure a clerk
	// account exists (idempotent; safe to run every start).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  username TEXT PRIMARY KEY CHECK (LENGTH(username) <= 20),
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  username TEXT NULL REFERENCES users(username) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(username);

-- Books
CREATE TABLE IF NOT EXISTS books(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  genre TEXT,
  author TEXT,
  publisher TEXT,
  price NUMERIC NOT NULL CHECK (price >= 0),
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_books_genre_name ON books(genre, name);

-- Sales
CREATE TABLE IF NOT EXISTS sales(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  transaction_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL CHECK (LENGTH(phone) = 10),
  book_id TEXT REFERENCES books(id) ON DELETE SET NULL,
  book_name TEXT NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  unit_price NUMERIC NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sales_txn        ON sales(transaction_id);
CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales(created_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM books`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo books")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO books(id,name,genre,author,publisher,price,quantity) VALUES
	  ('B001','The Go Programming Language','Programming','Donovan & Kernighan','Addison-Wesley',480,10),
	  ('B002','Designing Data-Intensive Applications','Programming','Martin Kleppmann','O''Reilly',550,7),
	  ('B003','The Hobbit','Fantasy','J.R.R. Tolkien','HarperCollins',299,12),
	  ('B004','A Wizard of Earthsea','Fantasy','Ursula K. Le Guin','Houghton Mifflin',250,3)`)

	return tx.Commit()
}

// seedUsers ensures the default clerk account exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	h, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), 12)

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
		INSERT INTO users(username,password_hash)
		VALUES(?,?)
		ON CONFLICT(username) DO NOTHING
	`, "clerk", string(h)); err != nil {
		return err
	}

	return tx.Commit()
}
