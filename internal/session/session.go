// Package session tracks which account, if any, is currently signed in.
// The indicator outlives the process but not a data wipe.
package session

import (
	"github.com/mlefevre/todopro/internal/prefs"
)

// Store records the current session indicator. An id of 0 means no session.
type Store interface {
	CurrentUserID() int64
	SetCurrentUser(id int64) error
	Clear() error
}

// PrefsStore keeps the session indicator in the preferences file. This is the
// default backend.
type PrefsStore struct {
	prefs *prefs.Store
}

// NewPrefsStore returns a session store backed by the preferences file.
func NewPrefsStore(p *prefs.Store) *PrefsStore {
	return &PrefsStore{prefs: p}
}

// CurrentUserID returns the signed-in account id, or 0 when signed out.
func (s *PrefsStore) CurrentUserID() int64 {
	return s.prefs.GetInt64(prefs.KeyCurrentUser, 0)
}

// SetCurrentUser persists the signed-in account id.
func (s *PrefsStore) SetCurrentUser(id int64) error {
	return s.prefs.Set(prefs.KeyCurrentUser, id)
}

// Clear signs the current account out.
func (s *PrefsStore) Clear() error {
	return s.prefs.Set(prefs.KeyCurrentUser, int64(0))
}
