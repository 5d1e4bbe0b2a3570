package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"shelfwise/internal/domain"
)

// UserRepo owns user rows and the sid-keyed sessions table. Like the
// other repos it checks connections out through the bounded pool.
type UserRepo struct{ pool *Pool }

func NewUserRepo(pool *Pool) *UserRepo { return &UserRepo{pool: pool} }

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		return sqlx.GetContext(context.Background(), conn, &u, `SELECT username,password_hash FROM users WHERE username=?`, username)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(username, hash string) error {
	return r.pool.WithConn(func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(context.Background(), `INSERT INTO users(username,password_hash) VALUES(?,?)`, username, hash)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint") {
				return domain.ErrDuplicateUser
			}
			return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		return nil
	})
}

func (r *UserRepo) BindSession(sid, username string) error {
	return r.pool.WithConn(func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(context.Background(), `INSERT INTO sessions(id,username,last_seen)
                          VALUES(?,?,CURRENT_TIMESTAMP)
                          ON CONFLICT(id) DO UPDATE SET username=excluded.username,last_seen=CURRENT_TIMESTAMP`, sid, username)
		return err
	})
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.pool.WithConn(func(conn *sqlx.Conn) error {
		return sqlx.GetContext(context.Background(), conn, &u, `
      SELECT u.username,u.password_hash
      FROM sessions s
      JOIN users u ON u.username=s.username
      WHERE s.id=?`, sid)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	return r.pool.WithConn(func(conn *sqlx.Conn) error {
		_, err := conn.ExecContext(context.Background(), `UPDATE sessions SET username=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
		return err
	})
}
