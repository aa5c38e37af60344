package pricefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCoinGeckoGetPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		if ids != "bitcoin,ethereum,tether" {
			t.Errorf("неверный параметр ids: %s", ids)
		}
		if r.URL.Query().Get("vs_currencies") != "usd" {
			t.Errorf("неверный параметр vs_currencies: %s", r.URL.Query().Get("vs_currencies"))
		}
		w.Write([]byte(`{
			"bitcoin": {"usd": 50000.0},
			"ethereum": {"usd": 3000.5},
			"tether": {"usd": 1.0}
		}`))
	}))
	defer server.Close()

	client := NewCoinGecko(server.URL, nil)

	quotes, err := client.GetPrices(context.Background(), []string{"bitcoin", "ethereum", "tether"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("получено %d котировок, ожидалось 3", len(quotes))
	}

	// Порядок запрошенного списка сохраняется
	if quotes[0].ID != "bitcoin" || quotes[1].ID != "ethereum" || quotes[2].ID != "tether" {
		t.Errorf("неверный порядок котировок: %v", quotes)
	}
	if quotes[0].Price != 50000.0 {
		t.Errorf("цена bitcoin = %f, ожидалось 50000.0", quotes[0].Price)
	}
}

func TestCoinGeckoGetPricesPartialResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// solana отсутствует в ответе
		w.Write([]byte(`{"bitcoin": {"usd": 50000.0}}`))
	}))
	defer server.Close()

	client := NewCoinGecko(server.URL, nil)

	quotes, err := client.GetPrices(context.Background(), []string{"bitcoin", "solana"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("получено %d котировок, ожидалось 1", len(quotes))
	}
	if quotes[0].ID != "bitcoin" {
		t.Errorf("котировка = %s, ожидалось bitcoin", quotes[0].ID)
	}
}

func TestCoinGeckoGetPricesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewCoinGecko(server.URL, nil)

	_, err := client.GetPrices(context.Background(), DefaultCoins)
	if err == nil {
		t.Fatal("ожидалась ошибка, получен nil")
	}
}
