package models

import "time"

// User представляет пользователя Telegram-бота
type User struct {
	UserID      int64     `json:"user_id" db:"user_id"`
	Subscribed  bool      `json:"subscribed" db:"subscribed"`
	APIKey      string    `json:"-" db:"api_key"`     // зашифрован, не возвращается в JSON
	APISecret   string    `json:"-" db:"api_secret"`  // зашифрован
	TotalTraded float64   `json:"total_traded" db:"total_traded"` // сумма всех сделок в валюте котировки
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// HasCredentials возвращает true если у пользователя сохранены оба API ключа
// Инвариант: ключ и секрет либо оба присутствуют, либо оба отсутствуют
func (u *User) HasCredentials() bool {
	return u.APIKey != "" && u.APISecret != ""
}

// UserSummary - публичное представление пользователя для API
// Не содержит API ключей
type UserSummary struct {
	UserID      int64   `json:"user_id"`
	Subscribed  bool    `json:"subscribed"`
	HasAPIKeys  bool    `json:"has_api_keys"`
	TotalTraded float64 `json:"total_traded"`
}

// Summary возвращает публичное представление пользователя
func (u *User) Summary() UserSummary {
	return UserSummary{
		UserID:      u.UserID,
		Subscribed:  u.Subscribed,
		HasAPIKeys:  u.HasCredentials(),
		TotalTraded: u.TotalTraded,
	}
}
