package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradebot/internal/models"
)

// NotificationProvider - операции над журналом событий, нужные админ API
type NotificationProvider interface {
	GetRecent(limit int) ([]*models.Notification, error)
	GetByTypes(types []string, limit int) ([]*models.Notification, error)
	GetByUser(userID int64, limit int) ([]*models.Notification, error)
	Clear() error
}

// NotificationHandler отвечает за журнал событий бота
//
// Endpoints:
// - GET /api/v1/notifications - получение списка уведомлений
// - GET /api/v1/notifications?types=trade_ok,trade_fail - с фильтрацией по типам
// - GET /api/v1/notifications?user_id=42 - по одному пользователю
// - GET /api/v1/notifications?limit=50 - с ограничением количества
// - DELETE /api/v1/notifications - очистка журнала
//
// Типы уведомлений:
// - TRADE_OK: успешная сделка
// - TRADE_FAIL: ошибка сделки
// - PROGRESS: отложенное статус-сообщение
// - SUBSCRIBE / UNSUBSCRIBE: смена подписки
// - API_ERROR: ошибка биржевого API
type NotificationHandler struct {
	notifications NotificationProvider
}

// NewNotificationHandler создает новый NotificationHandler с внедрением зависимости
func NewNotificationHandler(notifications NotificationProvider) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// GetNotificationsResponse представляет ответ списка уведомлений
type GetNotificationsResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Total         int               `json:"total"`
}

// NotificationDTO представляет уведомление в API
type NotificationDTO struct {
	ID        int                    `json:"id"`
	Timestamp string                 `json:"timestamp"`
	Type      string                 `json:"type"`
	Severity  string                 `json:"severity"`
	UserID    int64                  `json:"user_id,omitempty"`
	Message   string                 `json:"message"`
	Meta      map[string]interface{} `json:"meta,omitempty"`
}

// GetNotifications возвращает журнал событий с фильтрацией
//
// GET /api/v1/notifications
//
// Query параметры:
// - types (string): фильтр по типам через запятую
// - user_id (int): только события одного пользователя
// - limit (int): количество записей (по умолчанию 100)
//
// HTTP коды:
// - 200 OK: успешно, возвращает массив уведомлений
// - 500 Internal Server Error: ошибка сервера
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 100
	if parsed, err := strconv.Atoi(query.Get("limit")); err == nil && parsed > 0 {
		limit = parsed
	}

	var types []string
	if typesParam := query.Get("types"); typesParam != "" {
		for _, part := range strings.Split(typesParam, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				types = append(types, strings.ToUpper(trimmed))
			}
		}
	}

	var (
		notifications []*models.Notification
		err           error
	)
	switch {
	case query.Get("user_id") != "":
		userID, parseErr := strconv.ParseInt(query.Get("user_id"), 10, 64)
		if parseErr != nil || userID <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid user_id")
			return
		}
		notifications, err = h.notifications.GetByUser(userID, limit)
	case len(types) > 0:
		notifications, err = h.notifications.GetByTypes(types, limit)
	default:
		notifications, err = h.notifications.GetRecent(limit)
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get notifications: "+err.Error())
		return
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, NotificationDTO{
			ID:        n.ID,
			Timestamp: n.Timestamp.Format(time.RFC3339),
			Type:      n.Type,
			Severity:  n.Severity,
			UserID:    n.UserID,
			Message:   n.Message,
			Meta:      n.Meta,
		})
	}

	respondWithJSON(w, http.StatusOK, GetNotificationsResponse{
		Notifications: dtos,
		Total:         len(dtos),
	})
}

// ClearNotifications очищает журнал событий
//
// DELETE /api/v1/notifications
//
// Удаляет все уведомления из базы данных. Действие необратимо.
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Clear(); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to clear notifications: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, SuccessResponse{Message: "Notifications cleared successfully"})
}
