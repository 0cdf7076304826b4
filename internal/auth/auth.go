// Package auth verifies account credentials and owns the current-session
// indicator.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/mlefevre/todopro/internal/model"
	"github.com/mlefevre/todopro/internal/session"
	"github.com/mlefevre/todopro/internal/store"
)

var (
	// ErrInvalidInput rejects an empty email or password at registration,
	// or a blank display name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmailTaken means an account with the normalized email already
	// exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession means the operation needs a signed-in account.
	ErrNoSession = errors.New("no active session")
)

const saltLength = 16

// Service registers and authenticates accounts against the store and records
// the active session.
type Service struct {
	store   *store.SQLiteStore
	session session.Store
}

// New returns a credential service over the given store and session backend.
func New(st *store.SQLiteStore, sess session.Store) *Service {
	return &Service{store: st, session: sess}
}

// Register creates an account for the normalized email and signs it in.
func (a *Service) Register(ctx context.Context, email, password, name string) (*model.Account, error) {
	normalized := model.NormalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", ErrInvalidInput)
	}

	existing, err := a.store.AccountByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	account := &model.Account{
		Email:        normalized,
		Name:         strings.TrimSpace(name),
		PasswordSalt: salt,
		PasswordHash: hashPassword(password, salt),
	}
	if err := a.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	if err := a.session.SetCurrentUser(account.ID); err != nil {
		return nil, err
	}
	return account, nil
}

// Login authenticates the account and signs it in. An unknown email and a
// wrong password fail with the identical error.
func (a *Service) Login(ctx context.Context, email, password string) (*model.Account, error) {
	normalized := model.NormalizeEmail(email)

	account, err := a.store.AccountByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	hash := hashPassword(password, account.PasswordSalt)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(account.PasswordHash)) != 1 {
		return nil, ErrInvalidCredentials
	}

	if err := a.session.SetCurrentUser(account.ID); err != nil {
		return nil, err
	}
	return account, nil
}

// CurrentUserID returns the signed-in account id, or 0 when signed out.
func (a *Service) CurrentUserID() int64 {
	return a.session.CurrentUserID()
}

// SetCurrentUser records the active session explicitly.
func (a *Service) SetCurrentUser(id int64) error {
	return a.session.SetCurrentUser(id)
}

// SignOut clears the active session.
func (a *Service) SignOut() error {
	return a.session.Clear()
}

// CurrentAccount loads the signed-in account, or nil without a session.
func (a *Service) CurrentAccount(ctx context.Context) (*model.Account, error) {
	id := a.session.CurrentUserID()
	if id == 0 {
		return nil, nil
	}
	return a.store.AccountByID(ctx, id)
}

// UpdateDisplayName persists a new display name for the signed-in account.
func (a *Service) UpdateDisplayName(ctx context.Context, name string) error {
	id := a.session.CurrentUserID()
	if id == 0 {
		return ErrNoSession
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("display name must not be blank: %w", ErrInvalidInput)
	}
	return a.store.UpdateAccountName(ctx, id, trimmed)
}

func newSalt() (string, error) {
	buf := make([]byte, saltLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// hashPassword derives the stored hash: base64(SHA-256(password ":" salt)).
func hashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + ":" + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}
