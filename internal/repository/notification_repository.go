package repository

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"tradebot/internal/models"
)

// NotificationRepository - работа с таблицей notifications
//
// Журнал событий торговли: исполненные и неудавшиеся сделки,
// подписки/отписки, ошибки API. Пишется best-effort из исполнителя
// сделок и читается через админ API.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository создает новый экземпляр репозитория
func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create создает новое уведомление
func (r *NotificationRepository) Create(notif *models.Notification) error {
	var metaJSON []byte
	if notif.Meta != nil {
		var err error
		metaJSON, err = json.Marshal(notif.Meta)
		if err != nil {
			return err
		}
	}

	if notif.Timestamp.IsZero() {
		notif.Timestamp = time.Now()
	}
	if notif.Severity == "" {
		notif.Severity = models.SeverityInfo
	}

	query := `
		INSERT INTO notifications (timestamp, type, severity, user_id, message, meta)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return r.db.QueryRow(query,
		notif.Timestamp,
		notif.Type,
		notif.Severity,
		notif.UserID,
		notif.Message,
		metaJSON,
	).Scan(&notif.ID)
}

// GetRecent возвращает последние limit уведомлений (новые первыми)
func (r *NotificationRepository) GetRecent(limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, timestamp, type, severity, user_id, message, meta
		FROM notifications
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// GetByTypes возвращает уведомления заданных типов
func (r *NotificationRepository) GetByTypes(types []string, limit int) ([]*models.Notification, error) {
	if len(types) == 0 {
		return r.GetRecent(limit)
	}

	// pq.Array не используется: собираем placeholders вручную
	placeholders := make([]string, len(types))
	args := make([]interface{}, 0, len(types)+1)
	for i, tp := range types {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args = append(args, tp)
	}
	args = append(args, limit)

	query := `
		SELECT id, timestamp, type, severity, user_id, message, meta
		FROM notifications
		WHERE type IN (` + strings.Join(placeholders, ", ") + `)
		ORDER BY timestamp DESC
		LIMIT $` + strconv.Itoa(len(types)+1)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// GetByUser возвращает последние уведомления одного пользователя
func (r *NotificationRepository) GetByUser(userID int64, limit int) ([]*models.Notification, error) {
	query := `
		SELECT id, timestamp, type, severity, user_id, message, meta
		FROM notifications
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// DeleteAll очищает журнал уведомлений
func (r *NotificationRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM notifications`)
	return err
}

// DeleteOlderThan удаляет уведомления старше указанного времени.
// Возвращает количество удалённых записей.
func (r *NotificationRepository) DeleteOlderThan(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM notifications WHERE timestamp < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Count возвращает количество уведомлений в журнале
func (r *NotificationRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}

// scanNotifications читает строки результата в слайс уведомлений
func scanNotifications(rows *sql.Rows) ([]*models.Notification, error) {
	notifs := make([]*models.Notification, 0)
	for rows.Next() {
		notif := &models.Notification{}
		var metaJSON []byte
		err := rows.Scan(
			&notif.ID,
			&notif.Timestamp,
			&notif.Type,
			&notif.Severity,
			&notif.UserID,
			&notif.Message,
			&metaJSON,
		)
		if err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &notif.Meta); err != nil {
				return nil, err
			}
		}
		notifs = append(notifs, notif)
	}
	return notifs, rows.Err()
}
