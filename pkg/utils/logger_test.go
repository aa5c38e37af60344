package utils

import (
	"testing"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"json info", "info", "json", false},
		{"console debug", "debug", "console", false},
		{"default format", "warn", "", false},
		{"error level", "error", "json", false},
		{"unknown level", "verbose", "json", true},
		{"unknown format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := InitLogger(tt.level, tt.format)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ожидалась ошибка, получен nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("неожиданная ошибка: %v", err)
			}
			if logger == nil {
				t.Fatal("InitLogger вернул nil")
			}
		})
	}
}

func TestInitLoggerLevelFiltering(t *testing.T) {
	logger, err := InitLogger("error", "json")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if logger.Core().Enabled(0) { // InfoLevel = 0
		t.Error("info не должен проходить при уровне error")
	}
}
