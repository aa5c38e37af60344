package bot

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"подписка", PhaseAnonymous, PhaseSubscribed, true},
		{"начало ввода ключей", PhaseSubscribed, PhaseCollectingAPIKey, true},
		{"ключ введён", PhaseCollectingAPIKey, PhaseCollectingAPISecret, true},
		{"секрет проверен", PhaseCollectingAPISecret, PhaseReady, true},
		{"выбор валюты", PhaseReady, PhaseSelectingCurrency, true},
		{"ввод суммы", PhaseSelectingCurrency, PhaseCollectingAmount, true},
		{"выбор стратегии", PhaseCollectingAmount, PhaseSelectingStrategy, true},
		{"запуск сделки", PhaseSelectingStrategy, PhaseReady, true},
		{"отписка из любой фазы", PhaseCollectingAmount, PhaseAnonymous, true},
		{"пропуск шагов запрещён", PhaseSubscribed, PhaseSelectingStrategy, false},
		{"повторный ввод ключей", PhaseReady, PhaseCollectingAPIKey, true},
		{"назад по диалогу запрещён", PhaseCollectingAmount, PhaseSelectingCurrency, false},
		{"неизвестная фаза", "bogus", PhaseReady, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, ожидалось %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsAuthenticated(t *testing.T) {
	if IsAuthenticated(PhaseAnonymous) {
		t.Error("anonymous не должен считаться аутентифицированным")
	}
	if IsAuthenticated("") {
		t.Error("пустая фаза не должна считаться аутентифицированной")
	}
	if !IsAuthenticated(PhaseReady) {
		t.Error("ready должен считаться аутентифицированным")
	}
}

func TestParseCallback(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, parsed interface{})
	}{
		{
			name: "валюта",
			data: "currency:USD",
			check: func(t *testing.T, parsed interface{}) {
				cb, ok := parsed.(*CurrencyCallback)
				if !ok {
					t.Fatalf("ожидался CurrencyCallback, получено %T", parsed)
				}
				if cb.Currency != "USD" {
					t.Errorf("валюта = %s, ожидалось USD", cb.Currency)
				}
			},
		},
		{
			name: "стратегия",
			data: "strategy:2:150.5:EUR",
			check: func(t *testing.T, parsed interface{}) {
				cb, ok := parsed.(*StrategyCallback)
				if !ok {
					t.Fatalf("ожидался StrategyCallback, получено %T", parsed)
				}
				if cb.StrategyID != 2 || cb.Amount != 150.5 || cb.Currency != "EUR" {
					t.Errorf("неверный разбор: %+v", cb)
				}
			},
		},
		{"пустая строка", "", true, nil},
		{"неизвестный тип", "bogus:USD", true, nil},
		{"валюта без кода", "currency:", true, nil},
		{"лишние части", "currency:USD:extra", true, nil},
		{"нечисловой id стратегии", "strategy:x:100:USD", true, nil},
		{"отрицательная сумма", "strategy:1:-5:USD", true, nil},
		{"не хватает частей", "strategy:1:100", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseCallback(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ожидалась ошибка, получен nil")
				}
				var perr *ProtocolError
				if !asProtocolError(err, &perr) {
					t.Errorf("ожидалась ProtocolError, получено %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			tt.check(t, parsed)
		})
	}
}

func asProtocolError(err error, target **ProtocolError) bool {
	pe, ok := err.(*ProtocolError)
	if ok {
		*target = pe
	}
	return ok
}

// Формат callback обратим: Parse после Format даёт исходные значения
func TestCallbackFormatParse(t *testing.T) {
	parsed, err := ParseCallback(FormatStrategyCallback(3, 100, "USDT"))
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	cb := parsed.(*StrategyCallback)
	if cb.StrategyID != 3 || cb.Amount != 100 || cb.Currency != "USDT" {
		t.Errorf("неверный разбор: %+v", cb)
	}
}
