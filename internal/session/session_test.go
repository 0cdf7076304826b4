package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/todopro/internal/session"
	"github.com/mlefevre/todopro/tests/testutil"
)

func TestPrefsStore_Lifecycle(t *testing.T) {
	s := session.NewPrefsStore(testutil.NewTestPrefs(t))

	assert.Zero(t, s.CurrentUserID())

	require.NoError(t, s.SetCurrentUser(7))
	assert.Equal(t, int64(7), s.CurrentUserID())

	require.NoError(t, s.Clear())
	assert.Zero(t, s.CurrentUserID())
}
