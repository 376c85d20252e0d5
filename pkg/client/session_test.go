package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

func tempStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store := tempStore(t)
	user := &model.User{Name: "Alice", Email: "alice@example.com"}

	require.NoError(t, store.Set(Session{
		Token:     "tok-123",
		User:      user,
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	assert.Equal(t, "tok-123", store.Token())
	assert.True(t, store.IsAuthenticated())
	require.NotNil(t, store.User())
	assert.Equal(t, "alice@example.com", store.User().Email)
}

func TestSessionStore_SurvivesProcessRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	first := NewSessionStore(path)
	require.NoError(t, first.Set(Session{
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	// Новый экземпляр читает тот же файл
	second := NewSessionStore(path)
	assert.Equal(t, "tok-123", second.Token())
}

func TestSessionStore_EmptyTokenClears(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Set(Session{Token: "tok-123", ExpiresAt: time.Now().Add(time.Hour)}))

	// Пустой токен - это logout, а не запись
	require.NoError(t, store.Set(Session{Token: ""}))

	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestSessionStore_ExpiredReadsAsLoggedOut(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Set(Session{
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	assert.Empty(t, store.Token())
	assert.False(t, store.IsAuthenticated())
}

func TestSessionStore_Clear(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Set(Session{Token: "tok-123", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, store.Clear())
	assert.False(t, store.IsAuthenticated())

	// Повторная очистка не ошибка
	require.NoError(t, store.Clear())
}

func TestSessionStore_MissingFile(t *testing.T) {
	store := tempStore(t)
	assert.Empty(t, store.Token())
	assert.False(t, store.IsAuthenticated())
}
