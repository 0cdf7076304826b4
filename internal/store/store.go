package store

import (
	"context"

	"github.com/mlefevre/todopro/internal/model"
)

// Store defines the persistence surface for accounts and tasks.
// *SQLiteStore is the only production implementation; the interface exists
// for callers that want to substitute storage in tests.
type Store interface {
	// === Accounts ===

	CreateAccount(ctx context.Context, a *model.Account) error
	AccountByEmail(ctx context.Context, email string) (*model.Account, error)
	AccountByID(ctx context.Context, id int64) (*model.Account, error)
	UpdateAccountName(ctx context.Context, id int64, name string) error

	// === Tasks (all scoped by owner) ===

	ListTasks(ctx context.Context, ownerID int64) ([]*model.Task, error)
	AddTask(ctx context.Context, t *model.Task) error
	UpdateTask(ctx context.Context, t *model.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ClearCompleted(ctx context.Context, ownerID int64) (int, error)
	NextOrderIndex(ctx context.Context, ownerID int64) (int, error)
	PersistOrder(ctx context.Context, tasks []*model.Task) error

	Close() error
}

var _ Store = (*SQLiteStore)(nil)
