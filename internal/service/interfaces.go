// Package service содержит бизнес-логику поверх репозиториев:
// шифрование учётных данных и журнал событий торговли.
package service

import (
	"time"

	"tradebot/internal/models"
	"tradebot/internal/repository"
)

// UserRepository - операции хранилища пользователей
type UserRepository interface {
	GetOrCreate(userID int64) (*models.User, error)
	GetByID(userID int64) (*models.User, error)
	GetAll() ([]*models.User, error)
	SetSubscribed(userID int64, subscribed bool) error
	SetAPIKey(userID int64, apiKey string) error
	SetAPISecret(userID int64, apiSecret string) error
	AddTraded(userID int64, delta float64) error
	GetTotalTraded(userID int64) (float64, error)
	Count() (int, error)
}

// NotificationRepository - операции журнала уведомлений
type NotificationRepository interface {
	Create(notif *models.Notification) error
	GetRecent(limit int) ([]*models.Notification, error)
	GetByTypes(types []string, limit int) ([]*models.Notification, error)
	GetByUser(userID int64, limit int) ([]*models.Notification, error)
	DeleteAll() error
	DeleteOlderThan(olderThan time.Time) (int64, error)
	Count() (int, error)
}

// Broadcaster - рассылка событий подключённым websocket клиентам
type Broadcaster interface {
	Broadcast(message []byte)
}

// Проверка соответствия реализаций интерфейсам
var (
	_ UserRepository         = (*repository.UserRepository)(nil)
	_ NotificationRepository = (*repository.NotificationRepository)(nil)
)
