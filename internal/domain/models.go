package domain

type Book struct {
	ID        string  `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Genre     string  `db:"genre" json:"genre"`
	Author    string  `db:"author" json:"author"`
	Publisher string  `db:"publisher" json:"publisher"`
	Price     float64 `db:"price" json:"price"`
	Quantity  int     `db:"quantity" json:"quantity"`
	CreatedAt string  `db:"created_at" json:"-"`
	UpdatedAt string  `db:"updated_at" json:"-"`
}

type Sale struct {
	ID            int64   `db:"id"`
	TransactionID string  `db:"transaction_id"`
	CustomerName  string  `db:"customer_name"`
	Phone         string  `db:"phone"`
	BookID        string  `db:"book_id"`
	BookName      string  `db:"book_name"`
	Quantity      int     `db:"quantity"`
	UnitPrice     float64 `db:"unit_price"`
	Total         float64 `db:"total"`
	CreatedAt     string  `db:"created_at"`
}

// DashboardStats backs the dashboard page after login.
type DashboardStats struct {
	TotalBooks   int     `db:"total_books"`
	TotalRevenue float64 `db:"total_revenue"`
	LowStock     int     `db:"low_stock"` // titles with fewer than 10 on hand
}
