package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	rePhone    = regexp.MustCompile(`^[0-9]{10}$`)
	reBookID   = regexp.MustCompile(`^[A-Za-z0-9_-]{1,10}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._-]{1,20}$`)
)

// Phone requires exactly 10 digits, no separators.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, rePhone.MatchString(s)
}

// BookID validates a caller-supplied book identifier.
func BookID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reBookID.MatchString(s)
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reUsername.MatchString(s)
}

// Qty parses a strictly positive quantity.
func Qty(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Units parses a non-negative integer (initial stock on book creation).
func Units(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Price parses a non-negative price.
func Price(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}

// Name validates a displayable name (customer, book, author, publisher).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// Action validates the restock form action.
func Action(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, s == "add" || s == "subtract"
}

// Password enforces a simple length window for signup/login checks.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 64
}
