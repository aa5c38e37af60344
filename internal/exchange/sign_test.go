package exchange

import "testing"

// testSecret - base64 от 32-байтового ключа "0123456789abcdef0123456789abcdef"
const testSecret = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="

func TestSign(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		timestamp string
		method    string
		path      string
		body      string
		want      string
		wantErr   bool
	}{
		{
			name:      "GET без тела",
			secret:    testSecret,
			timestamp: "1700000000",
			method:    "GET",
			path:      "/products/BTC-USD/ticker",
			body:      "",
			want:      "XK4PVPHdOOFPREYB7qkpRHG4rpTguoCjvZtqqIYNSDQ=",
		},
		{
			name:      "POST с телом",
			secret:    testSecret,
			timestamp: "1700000000",
			method:    "POST",
			path:      "/orders",
			body:      `{"funds":"100","product_id":"BTC-USD","side":"buy","type":"market"}`,
			want:      "CCSCxPd71kzYLg+xQx8OlOxROvlYgQ9B8s3TQeyggNU=",
		},
		{
			name:      "секрет не base64",
			secret:    "не-base64!!!",
			timestamp: "1700000000",
			method:    "GET",
			path:      "/accounts",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sign(tt.secret, tt.timestamp, tt.method, tt.path, tt.body)
			if tt.wantErr {
				if err == nil {
					t.Error("ожидалась ошибка, получен nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if got != tt.want {
				t.Errorf("подпись = %s, ожидалось %s", got, tt.want)
			}
		})
	}
}

// Одинаковые аргументы всегда дают одинаковую подпись
func TestSignDeterministic(t *testing.T) {
	first, err := Sign(testSecret, "1699999999", "GET", "/accounts", "")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	for i := 0; i < 10; i++ {
		got, err := Sign(testSecret, "1699999999", "GET", "/accounts", "")
		if err != nil {
			t.Fatalf("неожиданная ошибка: %v", err)
		}
		if got != first {
			t.Fatalf("подпись изменилась между вызовами: %s != %s", got, first)
		}
	}
}

// Любое изменение аргумента меняет подпись
func TestSignDependsOnAllInputs(t *testing.T) {
	base, _ := Sign(testSecret, "1700000000", "GET", "/accounts", "")

	variants := []struct {
		name      string
		timestamp string
		method    string
		path      string
		body      string
	}{
		{"другой timestamp", "1700000001", "GET", "/accounts", ""},
		{"другой метод", "1700000000", "POST", "/accounts", ""},
		{"другой путь", "1700000000", "GET", "/orders", ""},
		{"другое тело", "1700000000", "GET", "/accounts", "{}"},
	}

	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			got, err := Sign(testSecret, v.timestamp, v.method, v.path, v.body)
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if got == base {
				t.Error("подпись не изменилась при изменении входных данных")
			}
		})
	}
}
