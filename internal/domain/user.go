package domain

type User struct {
	Username string `db:"username"`
	Hash     string `db:"password_hash"`
}
