package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"confbooking/internal/domain"
)

type txManager struct {
	DB *sql.DB
}

// NewTxManager returns a TxManager that runs the callback inside a single
// database transaction, with user and booking repositories bound to it.
func NewTxManager(db *sql.DB) domain.TxManager {
	return &txManager{DB: db}
}

func (m *txManager) WithinTx(ctx context.Context, fn func(r domain.TxRepos) error) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	repos := domain.TxRepos{
		Users:    NewUserRepository(tx),
		Bookings: NewBookingRepository(tx),
	}
	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
