package services

import (
	"context"

	"finbook/internal/models"
	"finbook/internal/session"
)

// UserServicer defines the contract for the credential store.
type UserServicer interface {
	CreateUser(firstName, lastName, email, phone, password, dateOfBirth string) (*models.User, error)
	VerifyCredentials(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

// LedgerSummary holds the dashboard figures, recomputed on every request.
type LedgerSummary struct {
	Income        float64
	TotalExpenses float64
	Balance       float64
	Transactions  []session.Expense
}

// LedgerServicer defines the contract for the session-backed ledger.
type LedgerServicer interface {
	SetIncome(ctx context.Context, token string, amount float64) error
	AddExpense(ctx context.Context, token, description string, amount float64, notes string) (*session.Expense, error)
	Summarize(ctx context.Context, token string) (*LedgerSummary, error)
}
