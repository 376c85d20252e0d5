package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BuzzLyutic/taskflow/internal/model"
)

// Session - токен с кэшем профиля. ExpiresAt приходит от сервера вместе
// с токеном, так что клиентская сессия истекает ровно тогда же, когда
// сервер перестает принимать токен. Никаких своих констант на клиенте.
type Session struct {
	Token     string      `json:"token"`
	User      *model.User `json:"user,omitempty"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

func (s *Session) expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// SessionStore - единственное хранилище сессии: JSON-файл плюс копия
// в памяти процесса. Истекшая сессия читается как отсутствующая.
type SessionStore struct {
	path   string
	mu     sync.Mutex
	cached *Session
	loaded bool
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

// DefaultSessionPath - ~/.taskflow/session.json
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".taskflow", "session.json")
	}
	return filepath.Join(home, ".taskflow", "session.json")
}

// Set с пустым токеном стирает сессию вместо записи.
func (s *SessionStore) Set(session Session) error {
	if session.Token == "" {
		return s.Clear()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return err
	}

	s.cached = &session
	s.loaded = true
	return nil
}

// Token возвращает пустую строку, если сессии нет или она истекла.
func (s *SessionStore) Token() string {
	if session := s.current(); session != nil {
		return session.Token
	}
	return ""
}

func (s *SessionStore) User() *model.User {
	if session := s.current(); session != nil {
		return session.User
	}
	return nil
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

// Clear стирает сессию безусловно.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = nil
	s.loaded = true

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *SessionStore) current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.cached = s.read()
		s.loaded = true
	}
	if s.cached == nil || s.cached.expired() {
		return nil
	}
	return s.cached
}

func (s *SessionStore) read() *Session {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil
	}
	return &session
}
