package service

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"tradebot/internal/bot"
	"tradebot/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NotificationService - журнал событий торговли.
//
// Запись best-effort: ошибка БД логируется, но не прерывает сделку
// или переход сессии. Каждое записанное событие дополнительно
// рассылается websocket клиентам админ API.
type NotificationService struct {
	repo   NotificationRepository
	hub    Broadcaster
	logger *zap.Logger
}

// NewNotificationService создает новый сервис уведомлений.
// hub может быть nil, тогда события только персистятся.
func NewNotificationService(repo NotificationRepository, hub Broadcaster, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		repo:   repo,
		hub:    hub,
		logger: logger,
	}
}

var _ bot.TradeRecorder = (*NotificationService)(nil)

// Record сохраняет событие и рассылает его websocket клиентам
func (s *NotificationService) Record(notif *models.Notification) {
	if notif.Timestamp.IsZero() {
		notif.Timestamp = time.Now()
	}

	if err := s.repo.Create(notif); err != nil {
		s.logger.Warn("notification persist failed",
			zap.String("type", notif.Type),
			zap.Int64("user_id", notif.UserID),
			zap.Error(err),
		)
	}

	if s.hub != nil {
		payload, err := json.Marshal(notif)
		if err != nil {
			s.logger.Warn("notification marshal failed", zap.Error(err))
			return
		}
		s.hub.Broadcast(payload)
	}
}

// GetRecent возвращает последние уведомления
func (s *NotificationService) GetRecent(limit int) ([]*models.Notification, error) {
	return s.repo.GetRecent(limit)
}

// GetByTypes возвращает уведомления заданных типов
func (s *NotificationService) GetByTypes(types []string, limit int) ([]*models.Notification, error) {
	return s.repo.GetByTypes(types, limit)
}

// GetByUser возвращает уведомления одного пользователя
func (s *NotificationService) GetByUser(userID int64, limit int) ([]*models.Notification, error) {
	return s.repo.GetByUser(userID, limit)
}

// Clear очищает журнал
func (s *NotificationService) Clear() error {
	return s.repo.DeleteAll()
}

// Cleanup удаляет уведомления старше retention
func (s *NotificationService) Cleanup(retention time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(time.Now().Add(-retention))
}

// Count возвращает размер журнала
func (s *NotificationService) Count() (int, error) {
	return s.repo.Count()
}
