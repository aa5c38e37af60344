package repository

import (
	"database/sql"
	"errors"
	"time"

	"tradebot/internal/models"
)

// Ошибки репозитория пользователей
var (
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository - работа с таблицей users
//
// Таблица users - единственный источник правды о пользователе:
// подписка, API ключи (зашифрованы на уровне сервиса) и суммарный объём сделок.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository создает новый экземпляр репозитория
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetOrCreate возвращает пользователя, создавая запись с дефолтными
// значениями при первом обращении (subscribed=false, total_traded=0).
// Повторный вызов для существующего пользователя - no-op insert.
func (r *UserRepository) GetOrCreate(userID int64) (*models.User, error) {
	now := time.Now()

	insert := `
		INSERT INTO users (user_id, subscribed, api_key, api_secret, total_traded, updated_at, created_at)
		VALUES ($1, FALSE, '', '', 0, $2, $2)
		ON CONFLICT (user_id) DO NOTHING`

	if _, err := r.db.Exec(insert, userID, now); err != nil {
		return nil, err
	}

	return r.GetByID(userID)
}

// GetByID возвращает пользователя по идентификатору
func (r *UserRepository) GetByID(userID int64) (*models.User, error) {
	query := `
		SELECT user_id, subscribed, api_key, api_secret, total_traded, updated_at, created_at
		FROM users
		WHERE user_id = $1`

	user := &models.User{}
	err := r.db.QueryRow(query, userID).Scan(
		&user.UserID,
		&user.Subscribed,
		&user.APIKey,
		&user.APISecret,
		&user.TotalTraded,
		&user.UpdatedAt,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// GetAll возвращает всех пользователей (для админ API)
func (r *UserRepository) GetAll() ([]*models.User, error) {
	query := `
		SELECT user_id, subscribed, api_key, api_secret, total_traded, updated_at, created_at
		FROM users
		ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.UserID,
			&user.Subscribed,
			&user.APIKey,
			&user.APISecret,
			&user.TotalTraded,
			&user.UpdatedAt,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// SetSubscribed обновляет флаг подписки
func (r *UserRepository) SetSubscribed(userID int64, subscribed bool) error {
	query := `
		UPDATE users
		SET subscribed = $1, updated_at = $2
		WHERE user_id = $3`

	result, err := r.db.Exec(query, subscribed, time.Now(), userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetAPIKey сохраняет API ключ (первый шаг ввода учётных данных)
func (r *UserRepository) SetAPIKey(userID int64, apiKey string) error {
	query := `
		UPDATE users
		SET api_key = $1, updated_at = $2
		WHERE user_id = $3`

	return r.exec(query, apiKey, time.Now(), userID)
}

// SetAPISecret сохраняет API секрет (второй шаг ввода учётных данных)
func (r *UserRepository) SetAPISecret(userID int64, apiSecret string) error {
	query := `
		UPDATE users
		SET api_secret = $1, updated_at = $2
		WHERE user_id = $3`

	return r.exec(query, apiSecret, time.Now(), userID)
}

// AddTraded атомарно увеличивает накопленный объём сделок.
// Инкремент выполняется на стороне БД, поэтому конкурентные
// сделки одного пользователя не теряют обновления.
func (r *UserRepository) AddTraded(userID int64, delta float64) error {
	query := `
		UPDATE users
		SET total_traded = total_traded + $1, updated_at = $2
		WHERE user_id = $3`

	return r.exec(query, delta, time.Now(), userID)
}

// GetTotalTraded возвращает накопленный объём сделок пользователя
func (r *UserRepository) GetTotalTraded(userID int64) (float64, error) {
	query := `SELECT total_traded FROM users WHERE user_id = $1`

	var total float64
	err := r.db.QueryRow(query, userID).Scan(&total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	return total, nil
}

// Count возвращает количество пользователей
func (r *UserRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// exec выполняет UPDATE и проверяет, что строка существовала
func (r *UserRepository) exec(query string, args ...interface{}) error {
	result, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
