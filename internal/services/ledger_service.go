package services

import (
	"context"

	apperrors "finbook/internal/errors"
	"finbook/internal/session"
)

// ledgerService mutates and summarizes the per-session ledger. All state
// lives in the session store; nothing here touches the database.
type ledgerService struct {
	sessions session.Store
}

// NewLedgerService creates a new LedgerServicer over the given session store.
func NewLedgerService(sessions session.Store) LedgerServicer {
	return &ledgerService{sessions: sessions}
}

// SetIncome records the session's income figure.
func (s *ledgerService) SetIncome(ctx context.Context, token string, amount float64) error {
	data, err := s.load(ctx, token)
	if err != nil {
		return err
	}

	data.Income = amount
	if err := s.sessions.Set(ctx, token, data); err != nil {
		return apperrors.Wrap(apperrors.ErrSessionStore, err)
	}
	return nil
}

// AddExpense appends an expense record to the session's ledger. The list is
// append-only; existing entries are never rewritten.
func (s *ledgerService) AddExpense(ctx context.Context, token, description string, amount float64, notes string) (*session.Expense, error) {
	data, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	exp := session.NewExpense(description, amount, notes)
	data.Transactions = append(data.Transactions, exp)
	if err := s.sessions.Set(ctx, token, data); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSessionStore, err)
	}
	return &exp, nil
}

// Summarize recomputes the dashboard figures from the session's current
// state. Results are never cached.
func (s *ledgerService) Summarize(ctx context.Context, token string) (*LedgerSummary, error) {
	data, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	transactions := data.Transactions
	if transactions == nil {
		transactions = []session.Expense{}
	}
	return &LedgerSummary{
		Income:        data.Income,
		TotalExpenses: data.TotalExpenses(),
		Balance:       data.Balance(),
		Transactions:  transactions,
	}, nil
}

func (s *ledgerService) load(ctx context.Context, token string) (*session.Data, error) {
	data, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSessionStore, err)
	}
	// Sessions can expire mid-flow; the gate is re-checked on every call.
	if data == nil || data.User == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return data, nil
}
