// Package session implements the server-side session store. A session is an
// opaque token carried in a browser cookie, mapped server-side to the
// authenticated user plus the per-session ledger (income and recorded
// expenses). Backings are pluggable: in-memory for single-process deployments
// and tests, Redis when sessions must survive restarts.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// TimeFormat renders expense timestamps to minute precision.
const TimeFormat = "2006-01-02 15:04"

// TypeExpense is the fixed type tag on recorded expenses.
const TypeExpense = "expense"

// User identifies the authenticated account bound to a session.
type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// Expense is a single recorded expense entry.
type Expense struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Notes       string  `json:"notes"`
	Type        string  `json:"type"`
	CreatedAt   string  `json:"created_at"`
}

// NewExpense builds an expense record stamped with the current time.
func NewExpense(description string, amount float64, notes string) Expense {
	return Expense{
		Description: description,
		Amount:      amount,
		Notes:       notes,
		Type:        TypeExpense,
		CreatedAt:   time.Now().Format(TimeFormat),
	}
}

// Data is everything held server-side for one session. Transactions is
// append-only for the lifetime of the session; a missing Transactions slice
// reads as empty and a missing Income reads as zero.
type Data struct {
	User         *User     `json:"user,omitempty"`
	Income       float64   `json:"income"`
	Transactions []Expense `json:"transactions"`
}

// NewData returns fresh session data for a just-authenticated user. The
// ledger always starts empty: logging in discards any expense history a
// prior session held for the same browser.
func NewData(userID uint, email string) *Data {
	return &Data{
		User:         &User{ID: userID, Email: email},
		Transactions: []Expense{},
	}
}

// TotalExpenses sums the recorded expense amounts.
func (d *Data) TotalExpenses() float64 {
	var total float64
	for _, tx := range d.Transactions {
		total += tx.Amount
	}
	return total
}

// Balance is income minus the sum of recorded expenses.
func (d *Data) Balance() float64 {
	return d.Income - d.TotalExpenses()
}

// Store is a keyed session store. Get returns (nil, nil) when no session
// exists for the token.
type Store interface {
	Get(ctx context.Context, token string) (*Data, error)
	Set(ctx context.Context, token string, data *Data) error
	Clear(ctx context.Context, token string) error
}

// NewToken generates an opaque, unguessable session token.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
