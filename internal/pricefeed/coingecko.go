// Package pricefeed предоставляет публичные котировки для команды Coin List.
package pricefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultCoins - монеты, отображаемые в Coin List
var DefaultCoins = []string{"bitcoin", "ethereum", "solana", "binancecoin", "tether"}

// Quote - котировка одной монеты
type Quote struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

// CoinGecko - клиент публичного API котировок.
// Аутентификация не требуется, запросы не подписываются.
type CoinGecko struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinGecko создаёт новый клиент CoinGecko
func NewCoinGecko(baseURL string, httpClient *http.Client) *CoinGecko {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CoinGecko{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// GetPrices возвращает USD цены перечисленных монет,
// отсортированные в порядке запрошенного списка.
// Монеты, не вернувшиеся в ответе, пропускаются.
func (c *CoinGecko) GetPrices(ctx context.Context, coins []string) ([]Quote, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(coins, ","))
	query.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pricefeed: unexpected status %d", resp.StatusCode)
	}

	var prices map[string]struct {
		USD float64 `json:"usd"`
	}
	if err := json.Unmarshal(body, &prices); err != nil {
		return nil, err
	}

	order := make(map[string]int, len(coins))
	for i, id := range coins {
		order[id] = i
	}

	quotes := make([]Quote, 0, len(prices))
	for id, p := range prices {
		quotes = append(quotes, Quote{ID: id, Price: p.USD})
	}
	sort.Slice(quotes, func(i, j int) bool {
		return order[quotes[i].ID] < order[quotes[j].ID]
	})

	return quotes, nil
}
