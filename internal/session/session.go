// Пакет хранилищ уровня сессии (аналог sessionStorage)
package session

import (
	"context"
	"sync"
	"time"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

// Ключи записи отправки
const (
	KeyURL     = "submittedURL"
	KeyReview  = "submittedReview"
	KeyLoading = "loading"
)

// KeyStreamRun последний прогон потока результата
const KeyStreamRun = "resultStreamRun"

type entry struct {
	values  map[string]string
	touched time.Time
}

// Manager хранит данные сессий в памяти
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Store хранилище одной сессии
func (m *Manager) Store(sessionID string) storage.Store {
	return &sessionStore{m: m, id: sessionID}
}

// Sweep удаляет сессии без обращений дольше ttl, возвращает число удаленных
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	deadline := m.now().Add(-m.ttl)
	n := 0
	for id, e := range m.sessions {
		if e.touched.Before(deadline) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run периодически чистит сессии до отмены контекста
func (m *Manager) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Sweep()
		}
	}
}

// Len число живых сессий
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type sessionStore struct {
	m  *Manager
	id string
}

func (s *sessionStore) Get(_ context.Context, key string) (string, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.sessions[s.id]
	if !ok {
		return "", internalerrors.ErrNotFound
	}
	e.touched = s.m.now()
	v, ok := e.values[key]
	if !ok {
		return "", internalerrors.ErrNotFound
	}
	return v, nil
}

func (s *sessionStore) Set(_ context.Context, key string, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	e, ok := s.m.sessions[s.id]
	if !ok {
		e = &entry{values: make(map[string]string)}
		s.m.sessions[s.id] = e
	}
	e.touched = s.m.now()
	e.values[key] = value
	return nil
}
