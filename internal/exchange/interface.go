// Package exchange реализует подписанный REST клиент биржи.
package exchange

import (
	"context"
	"strconv"
	"time"
)

// Credentials - API ключи одного пользователя (расшифрованные)
//
// Передаются в каждый вызов: клиент не хранит состояние между запросами,
// один экземпляр обслуживает всех пользователей.
type Credentials struct {
	APIKey    string
	APISecret string
}

// Exchange определяет интерфейс подписанного клиента биржи
type Exchange interface {
	// GetSpotPrice получает текущую спот-цену продукта (например BTC-USD)
	GetSpotPrice(ctx context.Context, creds Credentials, productID string) (float64, error)

	// GetBalances получает балансы аккаунта: валюта и суммарный доступный объём.
	// Ошибка означает "баланс неизвестен", а не "баланс нулевой".
	GetBalances(ctx context.Context, creds Credentials) (map[string]float64, error)

	// HasSufficientBalance проверяет, достаточно ли средств в указанной валюте.
	// Fail-closed: при любой ошибке получения балансов возвращает false.
	HasSufficientBalance(ctx context.Context, creds Credentials, amount float64, currency string) bool

	// PlaceMarketOrder размещает рыночный ордер на сумму amount в валюте котировки
	PlaceMarketOrder(ctx context.Context, creds Credentials, amount float64, side, productID string) (*Order, error)
}

// Order представляет исполненный биржей ордер
type Order struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Side       string    `json:"side"`   // "buy" или "sell"
	Status     string    `json:"status"` // "pending", "done", "rejected"
	Funds      float64   `json:"funds"`       // потраченная сумма в валюте котировки
	FilledSize float64   `json:"filled_size"` // исполненный объём в базовом активе
	CreatedAt  time.Time `json:"created_at"`
}

// ExchangeError представляет ошибку ответа биржи (не-200 статус)
type ExchangeError struct {
	Status  int
	Message string
}

func (e *ExchangeError) Error() string {
	if e.Message != "" {
		return "exchange: " + strconv.Itoa(e.Status) + " " + e.Message
	}
	return "exchange: unexpected status " + strconv.Itoa(e.Status)
}

// Side constants for orders
const (
	SideBuy  = "buy"
	SideSell = "sell"
)
