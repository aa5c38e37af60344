package bot

import (
	"context"
	"fmt"

	"tradebot/internal/exchange"
)

// StrategyInfo описывает одну торговую стратегию
type StrategyInfo struct {
	ID   int
	Name string
}

// Strategies - доступные стратегии в порядке отображения
var Strategies = []StrategyInfo{
	{ID: 1, Name: "Buy & Hold"},
	{ID: 2, Name: "Moving Average"},
	{ID: 3, Name: "Mean Reversion"},
}

// ValidStrategy проверяет, известен ли идентификатор стратегии
func ValidStrategy(id int) bool {
	for _, st := range Strategies {
		if st.ID == id {
			return true
		}
	}
	return false
}

// StrategyName возвращает имя стратегии по идентификатору
func StrategyName(id int) string {
	for _, st := range Strategies {
		if st.ID == id {
			return st.Name
		}
	}
	return "unknown"
}

// RunStrategy исполняет выбранную стратегию: рыночный ордер на amount
// в валюте котировки по продукту BASE-{currency}, с опциональным
// предварительным расчётом курса.
//
// Успех возвращается как человекочитаемая сводка ордера, ошибка - как
// обычная error: исполнитель сделок переводит её в сообщение пользователю,
// за границу исполнителя ошибки стратегий не выходят.
func RunStrategy(ctx context.Context, client exchange.Exchange, creds exchange.Credentials, baseAsset string, strategyID int, amount float64, currency string) (string, error) {
	productID := baseAsset + "-" + currency

	switch strategyID {
	case 1:
		// Buy & Hold: ордер без предварительного расчёта курса
		order, err := client.PlaceMarketOrder(ctx, creds, amount, exchange.SideBuy, productID)
		if err != nil {
			return "", err
		}
		return orderSummary("Buy & Hold", order, amount, currency), nil

	case 2:
		// Moving Average: курс запрашивается до ордера,
		// сводка включает объём в базовом активе
		price, err := client.GetSpotPrice(ctx, creds, productID)
		if err != nil {
			return "", err
		}
		order, err := client.PlaceMarketOrder(ctx, creds, amount, exchange.SideBuy, productID)
		if err != nil {
			return "", err
		}
		units := amount / price
		return orderSummary("Moving Average", order, amount, currency) +
			fmt.Sprintf("\nEntry price: %.2f (%.8f %s)", price, units, baseAsset), nil

	case 3:
		// Mean Reversion: как 2, но сводка ориентирована на возврат к среднему
		price, err := client.GetSpotPrice(ctx, creds, productID)
		if err != nil {
			return "", err
		}
		order, err := client.PlaceMarketOrder(ctx, creds, amount, exchange.SideBuy, productID)
		if err != nil {
			return "", err
		}
		return orderSummary("Mean Reversion", order, amount, currency) +
			fmt.Sprintf("\nReference price: %.2f", price), nil

	default:
		return "", &ValidationError{Reason: fmt.Sprintf("unknown strategy id %d", strategyID)}
	}
}

func orderSummary(strategy string, order *exchange.Order, amount float64, currency string) string {
	return fmt.Sprintf("%s trade executed.\nOrder %s (%s): spent %.2f %s, filled %.8f",
		strategy, order.ID, order.Status, amount, currency, order.FilledSize)
}
