package bot

import (
	"strconv"
	"strings"
)

// EventKind - тип входящего события от чат-транспорта
type EventKind int

const (
	EventCommand  EventKind = iota // команда ("/start")
	EventText                      // текст сообщения или нажатие reply-кнопки
	EventCallback                  // callback inline-кнопки
)

// Event - входящее событие чат-транспорта.
// Text заполнен для Command/Text, Data - для Callback.
type Event struct {
	UserID int64
	Kind   EventKind
	Text   string
	Data   string
}

// Wire-протокол callback данных:
//
//	"currency:<CODE>"
//	"strategy:<id>:<amount>:<currency>"
//
// id - малое положительное целое в десятичной записи.
const (
	callbackCurrency = "currency"
	callbackStrategy = "strategy"
)

// CurrencyCallback - разобранный callback выбора валюты
type CurrencyCallback struct {
	Currency string
}

// StrategyCallback - разобранный callback выбора стратегии
type StrategyCallback struct {
	StrategyID int
	Amount     float64
	Currency   string
}

// ParseCallback разбирает callback данные согласно wire-протоколу.
// Возвращает *CurrencyCallback или *StrategyCallback.
// Некорректные данные дают ProtocolError, состояние сессии не затрагивается.
func ParseCallback(data string) (interface{}, error) {
	parts := strings.Split(data, ":")

	switch parts[0] {
	case callbackCurrency:
		if len(parts) != 2 || parts[1] == "" {
			return nil, &ProtocolError{Data: data, Reason: "malformed currency callback"}
		}
		return &CurrencyCallback{Currency: parts[1]}, nil

	case callbackStrategy:
		if len(parts) != 4 {
			return nil, &ProtocolError{Data: data, Reason: "malformed strategy callback"}
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil || id <= 0 {
			return nil, &ProtocolError{Data: data, Reason: "bad strategy id"}
		}
		amount, err := strconv.ParseFloat(parts[2], 64)
		if err != nil || amount <= 0 {
			return nil, &ProtocolError{Data: data, Reason: "bad amount"}
		}
		if parts[3] == "" {
			return nil, &ProtocolError{Data: data, Reason: "empty currency"}
		}
		return &StrategyCallback{StrategyID: id, Amount: amount, Currency: parts[3]}, nil

	default:
		return nil, &ProtocolError{Data: data, Reason: "unknown callback kind"}
	}
}

// FormatCurrencyCallback собирает callback данные выбора валюты
func FormatCurrencyCallback(currency string) string {
	return callbackCurrency + ":" + currency
}

// FormatStrategyCallback собирает callback данные выбора стратегии
func FormatStrategyCallback(id int, amount float64, currency string) string {
	return callbackStrategy + ":" + strconv.Itoa(id) + ":" +
		strconv.FormatFloat(amount, 'f', -1, 64) + ":" + currency
}
