package bot

import "sync"

// Session - transient состояние диалога одного пользователя.
// Не переживает рестарт процесса; при каждом переходе фазы
// перезаписывается целиком, а не мержится.
type Session struct {
	Phase           string
	PendingCurrency string
	PendingAmount   float64
}

// userSession связывает состояние с мьютексом, сериализующим
// обработку событий одного пользователя. События разных
// пользователей обрабатываются независимо.
type userSession struct {
	mu      sync.Mutex
	session Session
}

// SessionStore хранит сессии всех пользователей процесса
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*userSession
}

// NewSessionStore создает новое хранилище сессий
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]*userSession),
	}
}

// get возвращает сессию пользователя, создавая её при первом обращении
func (s *SessionStore) get(userID int64) *userSession {
	s.mu.RLock()
	us, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return us
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Повторная проверка под write-локом
	if us, ok = s.sessions[userID]; ok {
		return us
	}
	us = &userSession{session: Session{Phase: PhaseAnonymous}}
	s.sessions[userID] = us
	return us
}

// WithSession выполняет fn под пер-пользовательским мьютексом.
// Гарантирует, что переходы одного пользователя строго последовательны:
// следующее событие видит фазу, оставленную предыдущим.
func (s *SessionStore) WithSession(userID int64, fn func(sess *Session)) {
	us := s.get(userID)
	us.mu.Lock()
	defer us.mu.Unlock()
	fn(&us.session)
}

// Snapshot возвращает копию сессии пользователя (для админ API и тестов)
func (s *SessionStore) Snapshot(userID int64) Session {
	us := s.get(userID)
	us.mu.Lock()
	defer us.mu.Unlock()
	return us.session
}

// Len возвращает количество активных сессий
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
