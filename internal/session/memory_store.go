package session

import (
	"context"
	"quizmaster_backend/internal/util"
	"sync"
	"time"
)

// MemoryStore 进程内会话存储，用于未启用 Redis 的本地开发和测试
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	data     map[string]map[string][]byte
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		data:     make(map[string]map[string][]byte),
		now:      time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s.Expired(m.now()) {
		return nil, util.ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	delete(m.data, id)
	return nil
}

func (m *MemoryStore) PutData(ctx context.Context, s *Session, field string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return util.ErrSessionNotFound
	}
	fields, ok := m.data[s.ID]
	if !ok {
		fields = make(map[string][]byte)
		m.data[s.ID] = fields
	}
	fields[field] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) GetData(ctx context.Context, s *Session, field string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[s.ID][field]
	if !ok {
		return nil, ErrDataNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) DeleteData(ctx context.Context, s *Session, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[s.ID], field)
	return nil
}

// Sweep 删除过期会话，返回删除数量
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			delete(m.data, id)
			n++
		}
	}
	return n
}

// Len 当前保存的会话数量（含尚未清理的过期会话）
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
