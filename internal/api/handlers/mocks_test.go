package handlers

import (
	"sync"
	"time"

	"tradebot/internal/models"
	"tradebot/internal/repository"
)

// ============ Mock User Provider ============

// MockUserService мок для UserProvider
type MockUserService struct {
	users   map[int64]*models.User
	listErr error
	getErr  error
	mu      sync.RWMutex
}

// NewMockUserService создает новый мок пользовательского сервиса
func NewMockUserService() *MockUserService {
	return &MockUserService{users: make(map[int64]*models.User)}
}

func (m *MockUserService) AddUser(userID int64, subscribed bool, traded float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = &models.User{
		UserID:      userID,
		Subscribed:  subscribed,
		TotalTraded: traded,
		CreatedAt:   time.Now(),
	}
}

func (m *MockUserService) ListUsers() ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *MockUserService) GetSummary(userID int64) (*models.UserSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	summary := u.Summary()
	return &summary, nil
}

func (m *MockUserService) TotalTraded(userID int64) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	return u.TotalTraded, nil
}

func (m *MockUserService) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// ============ Mock Notification Provider ============

// MockNotificationService мок для NotificationProvider
type MockNotificationService struct {
	notifications []*models.Notification
	getErr        error
	clearErr      error
	cleared       bool
	nextID        int
	mu            sync.RWMutex
}

// NewMockNotificationService создает новый мок журнала событий
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{nextID: 1}
}

func (m *MockNotificationService) AddNotification(notifType, severity string, userID int64, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = append(m.notifications, &models.Notification{
		ID:        m.nextID,
		Timestamp: time.Now(),
		Type:      notifType,
		Severity:  severity,
		UserID:    userID,
		Message:   message,
	})
	m.nextID++
}

func (m *MockNotificationService) GetRecent(limit int) ([]*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.takeLocked(limit, func(*models.Notification) bool { return true }), nil
}

func (m *MockNotificationService) GetByTypes(types []string, limit int) ([]*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	wanted := make(map[string]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}
	return m.takeLocked(limit, func(n *models.Notification) bool { return wanted[n.Type] }), nil
}

func (m *MockNotificationService) GetByUser(userID int64, limit int) ([]*models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.takeLocked(limit, func(n *models.Notification) bool { return n.UserID == userID }), nil
}

func (m *MockNotificationService) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.notifications = nil
	m.cleared = true
	return nil
}

func (m *MockNotificationService) takeLocked(limit int, match func(*models.Notification) bool) []*models.Notification {
	out := make([]*models.Notification, 0, limit)
	for _, n := range m.notifications {
		if len(out) >= limit {
			break
		}
		if match(n) {
			out = append(out, n)
		}
	}
	return out
}
