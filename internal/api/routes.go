package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tradebot/internal/api/handlers"
	"tradebot/internal/api/middleware"
	"tradebot/internal/service"
	"tradebot/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	UserService         *service.UserService
	NotificationService *service.NotificationService
	Hub                 *websocket.Hub
	Logger              *zap.Logger

	// AdminPasswordHash - bcrypt-хеш для Basic auth; пусто = API без auth
	AdminPasswordHash string
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/ (Basic auth)
//
//	├── /users/
//	│   ├── GET / - список пользователей
//	│   ├── GET /{id} - сводка по пользователю
//	│   └── GET /{id}/traded - объем сделок пользователя
//	├── /notifications/
//	│   ├── GET / - журнал событий (фильтры types, user_id, limit)
//	│   └── DELETE / - очистить журнал
//	└── /stats/
//	    └── GET / - агрегированная статистика
//
// /ws/stream - WebSocket поток событий (Basic auth)
// /metrics - Prometheus метрики
// /health - health check
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. BasicAuth (только для /api/v1 и /ws)
func SetupRoutes(deps *Dependencies) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS)

	auth := middleware.BasicAuth(deps.AdminPasswordHash)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(auth)

	if deps.UserService != nil {
		userHandler := handlers.NewUserHandler(deps.UserService)
		api.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
		api.HandleFunc("/users/{id}", userHandler.GetUser).Methods("GET")
		api.HandleFunc("/users/{id}/traded", userHandler.GetTraded).Methods("GET")
		api.HandleFunc("/stats", userHandler.GetStats).Methods("GET")
	}

	if deps.NotificationService != nil {
		notificationHandler := handlers.NewNotificationHandler(deps.NotificationService)
		api.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
		api.HandleFunc("/notifications", notificationHandler.ClearNotifications).Methods("DELETE")
	}

	if deps.Hub != nil {
		ws := router.PathPrefix("/ws").Subrouter()
		ws.Use(auth)
		ws.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, logger, w, r)
		})
	}

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
