package models

import "time"

// Notification представляет запись журнала событий торговли
type Notification struct {
	ID        int                    `json:"id" db:"id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	Type      string                 `json:"type" db:"type"`         // TRADE_OK, TRADE_FAIL, PROGRESS, SUBSCRIBE, UNSUBSCRIBE, API_ERROR
	Severity  string                 `json:"severity" db:"severity"` // info, warn, error
	UserID    int64                  `json:"user_id" db:"user_id"`
	Message   string                 `json:"message" db:"message"`
	Meta      map[string]interface{} `json:"meta,omitempty" db:"meta"` // дополнительные данные (JSON в БД)
}

// Типы уведомлений
const (
	NotificationTypeTradeOK     = "TRADE_OK"    // сделка исполнена
	NotificationTypeTradeFail   = "TRADE_FAIL"  // сделка не исполнена
	NotificationTypeProgress    = "PROGRESS"    // периодический статус после сделки
	NotificationTypeSubscribe   = "SUBSCRIBE"   // подписка пользователя
	NotificationTypeUnsubscribe = "UNSUBSCRIBE" // отписка пользователя
	NotificationTypeAPIError    = "API_ERROR"   // ошибка API биржи или хранилища
)

// Уровни важности
const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)
