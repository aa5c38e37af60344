package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"tradebot/internal/models"
	"tradebot/internal/repository"
)

// UserProvider - операции над пользователями, нужные админ API
type UserProvider interface {
	ListUsers() ([]*models.User, error)
	GetSummary(userID int64) (*models.UserSummary, error)
	TotalTraded(userID int64) (float64, error)
	Count() (int, error)
}

// UserHandler отвечает за просмотр пользователей бота
//
// Endpoints:
// - GET /api/v1/users - список пользователей (без API ключей)
// - GET /api/v1/users/{id} - сводка по пользователю
// - GET /api/v1/users/{id}/traded - суммарный объем сделок
// - GET /api/v1/stats - агрегированная статистика
type UserHandler struct {
	users UserProvider
}

// NewUserHandler создает новый UserHandler с внедрением зависимости
func NewUserHandler(users UserProvider) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsersResponse представляет ответ списка пользователей
type ListUsersResponse struct {
	Users []models.UserSummary `json:"users"`
	Total int                  `json:"total"`
}

// GetUsers возвращает список всех пользователей бота.
// API ключи никогда не попадают в ответ.
//
// GET /api/v1/users
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list users: "+err.Error())
		return
	}

	summaries := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, u.Summary())
	}

	respondWithJSON(w, http.StatusOK, ListUsersResponse{
		Users: summaries,
		Total: len(summaries),
	})
}

// GetUser возвращает сводку по одному пользователю
//
// GET /api/v1/users/{id}
//
// HTTP коды:
// - 200 OK: сводка пользователя
// - 400 Bad Request: некорректный id
// - 404 Not Found: пользователь не найден
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	summary, err := h.users.GetSummary(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get user: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// TradedResponse представляет суммарный объем сделок пользователя
type TradedResponse struct {
	UserID      int64   `json:"user_id"`
	TotalTraded float64 `json:"total_traded"`
}

// GetTraded возвращает суммарный объем сделок пользователя
//
// GET /api/v1/users/{id}/traded
func (h *UserHandler) GetTraded(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	total, err := h.users.TotalTraded(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to get traded volume: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, TradedResponse{UserID: userID, TotalTraded: total})
}

// StatsResponse представляет агрегированную статистику бота
type StatsResponse struct {
	TotalUsers int `json:"total_users"`
}

// GetStats возвращает агрегированную статистику
//
// GET /api/v1/stats
func (h *UserHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.users.Count()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get stats: "+err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, StatsResponse{TotalUsers: count})
}

func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || userID <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid user id")
		return 0, false
	}
	return userID, true
}
