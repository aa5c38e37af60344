package exchange

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Coinbase реализует интерфейс Exchange для Coinbase Exchange API.
//
// Клиент не хранит ключи: Credentials передаются в каждый вызов,
// подпись вычисляется заново для каждого запроса.
type Coinbase struct {
	baseURL    string
	httpClient *http.Client
}

// NewCoinbase создаёт новый клиент Coinbase.
// Использует глобальный HTTP клиент с connection pooling.
func NewCoinbase(baseURL string) *Coinbase {
	return &Coinbase{
		baseURL:    baseURL,
		httpClient: GetGlobalHTTPClient(),
	}
}

var _ Exchange = (*Coinbase)(nil)

// doRequest выполняет подписанный HTTP запрос к API биржи.
// Повторных попыток нет: любая ошибка возвращается вызывающему как есть.
func (c *Coinbase) doRequest(ctx context.Context, creds Credentials, method, path string, payload interface{}) ([]byte, error) {
	var reqBody string
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = string(jsonBytes)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature, err := Sign(creds.APISecret, timestamp, method, path, reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader([]byte(reqBody)))
	if err != nil {
		return nil, err
	}

	req.Header.Set("access-key", creds.APIKey)
	req.Header.Set("access-sign", signature)
	req.Header.Set("access-timestamp", timestamp)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errResp)
		return nil, &ExchangeError{
			Status:  resp.StatusCode,
			Message: errResp.Message,
		}
	}

	return body, nil
}

func (c *Coinbase) GetSpotPrice(ctx context.Context, creds Credentials, productID string) (float64, error) {
	body, err := c.doRequest(ctx, creds, http.MethodGet, "/products/"+productID+"/ticker", nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, err
	}

	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ticker price %q: %w", resp.Price, err)
	}

	return price, nil
}

func (c *Coinbase) GetBalances(ctx context.Context, creds Credentials) (map[string]float64, error) {
	body, err := c.doRequest(ctx, creds, http.MethodGet, "/accounts", nil)
	if err != nil {
		return nil, err
	}

	var accounts []struct {
		Currency  string `json:"currency"`
		Available string `json:"available"`
	}
	if err := json.Unmarshal(body, &accounts); err != nil {
		return nil, err
	}

	// Несколько аккаунтов в одной валюте суммируются
	balances := make(map[string]float64, len(accounts))
	for _, acc := range accounts {
		available, err := strconv.ParseFloat(acc.Available, 64)
		if err != nil {
			return nil, fmt.Errorf("parse balance %q for %s: %w", acc.Available, acc.Currency, err)
		}
		balances[acc.Currency] += available
	}

	return balances, nil
}

func (c *Coinbase) HasSufficientBalance(ctx context.Context, creds Credentials, amount float64, currency string) bool {
	balances, err := c.GetBalances(ctx, creds)
	if err != nil {
		// fail-closed: неизвестный баланс считаем недостаточным
		return false
	}
	return balances[currency] >= amount
}

func (c *Coinbase) PlaceMarketOrder(ctx context.Context, creds Credentials, amount float64, side, productID string) (*Order, error) {
	payload := map[string]string{
		"type":       "market",
		"side":       side,
		"product_id": productID,
		"funds":      strconv.FormatFloat(amount, 'f', -1, 64),
	}

	body, err := c.doRequest(ctx, creds, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		ID         string `json:"id"`
		ProductID  string `json:"product_id"`
		Side       string `json:"side"`
		Status     string `json:"status"`
		Funds      string `json:"funds"`
		FilledSize string `json:"filled_size"`
		CreatedAt  string `json:"created_at"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	funds, _ := strconv.ParseFloat(resp.Funds, 64)
	filledSize, _ := strconv.ParseFloat(resp.FilledSize, 64)
	createdAt, err := time.Parse(time.RFC3339, resp.CreatedAt)
	if err != nil {
		createdAt = time.Now()
	}

	return &Order{
		ID:         resp.ID,
		ProductID:  resp.ProductID,
		Side:       resp.Side,
		Status:     resp.Status,
		Funds:      funds,
		FilledSize: filledSize,
		CreatedAt:  createdAt,
	}, nil
}
