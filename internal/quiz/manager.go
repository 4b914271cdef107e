package quiz

import "sync"

// Manager hands out one Service per client session id. The factory builds
// the per-session persistence stack (typically a store adapter scoped to
// the session's key namespace).
type Manager struct {
	mu       sync.Mutex
	factory  func(sessionID string) *Service
	sessions map[string]*Service
}

func NewManager(factory func(sessionID string) *Service) *Manager {
	return &Manager{
		factory:  factory,
		sessions: make(map[string]*Service),
	}
}

func (m *Manager) GetOrCreate(sessionID string) *Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	if svc, ok := m.sessions[sessionID]; ok {
		return svc
	}
	svc := m.factory(sessionID)
	m.sessions[sessionID] = svc
	return svc
}

func (m *Manager) Get(sessionID string) (*Service, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	svc, ok := m.sessions[sessionID]
	return svc, ok
}
