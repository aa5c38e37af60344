// Package bot реализует диалоговое ядро: state machine сессий и
// фоновый исполнитель сделок.
package bot

import (
	"context"

	"tradebot/internal/exchange"
	"tradebot/internal/models"
	"tradebot/internal/pricefeed"
)

// AccountStore - хранилище учётных записей, единственный источник
// правды о пользователе. Ядро работает с расшифрованными ключами;
// шифрование выполняется реализацией (сервисный слой).
type AccountStore interface {
	// GetOrCreate возвращает запись, создавая дефолтную при первом
	// обращении. Идемпотентна.
	GetOrCreate(userID int64) (*models.User, error)
	SetSubscribed(userID int64, subscribed bool) error
	SetAPIKey(userID int64, apiKey string) error
	SetAPISecret(userID int64, apiSecret string) error
	// Credentials возвращает расшифрованные ключи пользователя
	Credentials(userID int64) (exchange.Credentials, error)
	// AddTraded атомарно увеличивает накопленный объём сделок
	AddTraded(userID int64, delta float64) error
	TotalTraded(userID int64) (float64, error)
}

// PriceFeed - публичные котировки для команды Coin List
type PriceFeed interface {
	GetPrices(ctx context.Context, coins []string) ([]pricefeed.Quote, error)
}

// TradeRecorder - журнал событий торговли (best-effort: ошибки записи
// логируются, но не прерывают обработку)
type TradeRecorder interface {
	Record(notif *models.Notification)
}
