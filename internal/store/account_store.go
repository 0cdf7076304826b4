package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mlefevre/todopro/internal/model"
)

// CreateAccount inserts a new account, assigning CreatedAt and storing the
// generated id back on a. The email must already be normalized; uniqueness is
// enforced by the Email column.
func (s *SQLiteStore) CreateAccount(ctx context.Context, a *model.Account) error {
	if strings.TrimSpace(a.Email) == "" {
		return fmt.Errorf("account email must not be empty: %w", ErrInvalidInput)
	}

	a.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO Account (Email, Name, PasswordHash, PasswordSalt, CreatedAt)
		VALUES (?, ?, ?, ?, ?)`,
		a.Email, a.Name, a.PasswordHash, a.PasswordSalt, a.CreatedAt,
	)
	if err != nil {
		return writeFailed("creating account", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return writeFailed("creating account", err)
	}
	a.ID = id
	return nil
}

// AccountByEmail returns the account with the given normalized email, or nil
// when none exists.
func (s *SQLiteStore) AccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := s.db.GetContext(ctx, &a, "SELECT * FROM Account WHERE Email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account by email: %w", err)
	}
	return &a, nil
}

// AccountByID returns the account with the given id, or nil when none exists.
func (s *SQLiteStore) AccountByID(ctx context.Context, id int64) (*model.Account, error) {
	var a model.Account
	err := s.db.GetContext(ctx, &a, "SELECT * FROM Account WHERE Id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account %d: %w", id, err)
	}
	return &a, nil
}

// UpdateAccountName persists a new display name for the account.
func (s *SQLiteStore) UpdateAccountName(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE Account SET Name = ? WHERE Id = ?", name, id)
	if err != nil {
		return writeFailed(fmt.Sprintf("updating account %d name", id), err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}
