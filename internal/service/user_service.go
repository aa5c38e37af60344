package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"tradebot/internal/bot"
	"tradebot/internal/exchange"
	"tradebot/internal/models"
	"tradebot/pkg/crypto"
)

var (
	// ErrNoCredentials - у пользователя не сохранена пара API ключей
	ErrNoCredentials = errors.New("user has no API credentials")
)

// UserService - операции над учётными записями.
//
// API ключи шифруются AES-256-GCM перед записью в БД и расшифровываются
// при чтении: ядро бота и исполнитель сделок работают только с
// расшифрованными значениями, БД видит только шифротекст.
type UserService struct {
	repo          UserRepository
	encryptionKey []byte
	logger        *zap.Logger
}

// NewUserService создает новый сервис пользователей.
// encryptionKey - 32 байта (AES-256), валидируется на старте процесса.
func NewUserService(repo UserRepository, encryptionKey []byte, logger *zap.Logger) (*UserService, error) {
	if err := crypto.ValidateKey(encryptionKey); err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	return &UserService{
		repo:          repo,
		encryptionKey: encryptionKey,
		logger:        logger,
	}, nil
}

var _ bot.AccountStore = (*UserService)(nil)

// GetOrCreate возвращает учётную запись, создавая дефолтную при
// первом обращении. Ключи в возвращаемой записи зашифрованы.
func (s *UserService) GetOrCreate(userID int64) (*models.User, error) {
	return s.repo.GetOrCreate(userID)
}

// SetSubscribed обновляет флаг подписки
func (s *UserService) SetSubscribed(userID int64, subscribed bool) error {
	return s.repo.SetSubscribed(userID, subscribed)
}

// SetAPIKey шифрует и сохраняет API ключ
func (s *UserService) SetAPIKey(userID int64, apiKey string) error {
	encrypted, err := crypto.Encrypt(apiKey, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("encrypt api key: %w", err)
	}
	return s.repo.SetAPIKey(userID, encrypted)
}

// SetAPISecret шифрует и сохраняет API секрет
func (s *UserService) SetAPISecret(userID int64, apiSecret string) error {
	encrypted, err := crypto.Encrypt(apiSecret, s.encryptionKey)
	if err != nil {
		return fmt.Errorf("encrypt api secret: %w", err)
	}
	return s.repo.SetAPISecret(userID, encrypted)
}

// Credentials возвращает расшифрованную пару ключей пользователя
func (s *UserService) Credentials(userID int64) (exchange.Credentials, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return exchange.Credentials{}, err
	}
	if !user.HasCredentials() {
		return exchange.Credentials{}, ErrNoCredentials
	}

	apiKey, err := crypto.Decrypt(user.APIKey, s.encryptionKey)
	if err != nil {
		return exchange.Credentials{}, fmt.Errorf("decrypt api key: %w", err)
	}
	apiSecret, err := crypto.Decrypt(user.APISecret, s.encryptionKey)
	if err != nil {
		return exchange.Credentials{}, fmt.Errorf("decrypt api secret: %w", err)
	}

	return exchange.Credentials{APIKey: apiKey, APISecret: apiSecret}, nil
}

// AddTraded атомарно увеличивает накопленный объём сделок
func (s *UserService) AddTraded(userID int64, delta float64) error {
	if delta < 0 {
		return fmt.Errorf("negative trade delta %f", delta)
	}
	return s.repo.AddTraded(userID, delta)
}

// TotalTraded возвращает накопленный объём сделок
func (s *UserService) TotalTraded(userID int64) (float64, error) {
	return s.repo.GetTotalTraded(userID)
}

// GetSummary возвращает сводку пользователя для админ API
func (s *UserService) GetSummary(userID int64) (*models.UserSummary, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// ListUsers возвращает всех пользователей (ключи остаются зашифрованными
// и скрыты json-тегами при сериализации)
func (s *UserService) ListUsers() ([]*models.User, error) {
	return s.repo.GetAll()
}

// Count возвращает количество пользователей
func (s *UserService) Count() (int, error) {
	return s.repo.Count()
}
