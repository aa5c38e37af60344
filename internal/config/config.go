package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Telegram TelegramConfig
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Exchange ExchangeConfig
	Bot      BotConfig
	Logging  LoggingConfig
}

// TelegramConfig - настройки Telegram транспорта
type TelegramConfig struct {
	Token       string        // токен бота от BotFather
	PollTimeout time.Duration // таймаут long polling
	SendRate    float64       // лимит исходящих сообщений на чат (msg/sec)
	SendBurst   float64       // burst для лимитера отправки
}

// ServerConfig - настройки HTTP сервера (админ API)
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// SecurityConfig - настройки безопасности
type SecurityConfig struct {
	EncryptionKey     string // ключ AES-256 для шифрования API ключей пользователей
	AdminPasswordHash string // bcrypt-хеш пароля для админ API (пусто = API без auth)
}

// ExchangeConfig - настройки биржи и фида цен
type ExchangeConfig struct {
	BaseURL      string        // REST API биржи
	PricefeedURL string        // CoinGecko simple-price endpoint
	Timeout      time.Duration // таймаут одного запроса к бирже
}

// BotConfig - настройки торгового ядра
type BotConfig struct {
	BaseAsset           string        // базовый актив для product_id (BASE-{currency})
	SupportedCurrencies []string      // валюты котировки, доступные для выбора
	ProgressUpdates     int           // количество отложенных статус-сообщений после сделки
	ProgressInterval    time.Duration // интервал между статус-сообщениями
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			PollTimeout: getEnvAsDuration("TELEGRAM_POLL_TIMEOUT", 30*time.Second),
			SendRate:    getEnvAsFloat("TELEGRAM_SEND_RATE", 1.0),
			SendBurst:   getEnvAsFloat("TELEGRAM_SEND_BURST", 3.0),
		},
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "tradebot"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Security: SecurityConfig{
			EncryptionKey:     getEnv("ENCRYPTION_KEY", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Exchange: ExchangeConfig{
			BaseURL:      getEnv("EXCHANGE_BASE_URL", "https://api.exchange.coinbase.com"),
			PricefeedURL: getEnv("PRICEFEED_URL", "https://api.coingecko.com/api/v3/simple/price"),
			Timeout:      getEnvAsDuration("EXCHANGE_TIMEOUT", 10*time.Second),
		},
		Bot: BotConfig{
			BaseAsset:           getEnv("BASE_ASSET", "BTC"),
			SupportedCurrencies: getEnvAsSlice("SUPPORTED_CURRENCIES", []string{"USD", "USDT", "EUR", "GBP"}),
			ProgressUpdates:     getEnvAsInt("BOT_PROGRESS_UPDATES", 5),
			ProgressInterval:    getEnvAsDuration("BOT_PROGRESS_INTERVAL", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Валидация критичных параметров безопасности
	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecurity проверяет параметры безопасности
func (c *Config) validateSecurity() error {
	// TELEGRAM_BOT_TOKEN обязателен: без него нет входящего транспорта
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// ENCRYPTION_KEY обязателен для шифрования API ключей пользователей
	if c.Security.EncryptionKey == "" {
		return fmt.Errorf("ENCRYPTION_KEY is required for encrypting user API keys")
	}

	if len(c.Security.EncryptionKey) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes for AES-256")
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Exchange.Timeout <= 0 {
		return fmt.Errorf("EXCHANGE_TIMEOUT must be positive, got %v", c.Exchange.Timeout)
	}

	if c.Bot.ProgressUpdates < 0 {
		return fmt.Errorf("BOT_PROGRESS_UPDATES cannot be negative, got %d", c.Bot.ProgressUpdates)
	}

	if c.Bot.ProgressInterval <= 0 {
		return fmt.Errorf("BOT_PROGRESS_INTERVAL must be positive, got %v", c.Bot.ProgressInterval)
	}

	if len(c.Bot.SupportedCurrencies) == 0 {
		return fmt.Errorf("SUPPORTED_CURRENCIES cannot be empty")
	}

	if c.Bot.BaseAsset == "" {
		return fmt.Errorf("BASE_ASSET cannot be empty")
	}

	if c.Telegram.SendRate <= 0 {
		return fmt.Errorf("TELEGRAM_SEND_RATE must be positive, got %v", c.Telegram.SendRate)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, strings.ToUpper(p))
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
