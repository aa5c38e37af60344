package utils

// validator.go - валидация пользовательского ввода

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrEmptyAmount    = errors.New("amount is empty")
	ErrNotANumber     = errors.New("amount is not a number")
	ErrNotPositive    = errors.New("amount must be positive")
	ErrEmptyAPIKey    = errors.New("api key is empty")
	ErrAPIKeyTooShort = errors.New("api key is too short")
)

// ParseAmount разбирает сумму сделки: положительное десятичное число.
// Запятая принимается как десятичный разделитель.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, ErrEmptyAmount
	}

	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrNotANumber
	}
	if amount <= 0 {
		return 0, ErrNotPositive
	}

	return amount, nil
}

// ValidateAPIKey выполняет базовую проверку API ключа
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	if len(key) < 8 {
		return ErrAPIKeyTooShort
	}
	return nil
}

// ValidateCurrency проверяет принадлежность валюты списку поддерживаемых
func ValidateCurrency(currency string, supported []string) bool {
	for _, c := range supported {
		if c == currency {
			return true
		}
	}
	return false
}
