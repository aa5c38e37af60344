package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"tradebot/internal/api"
	"tradebot/internal/bot"
	"tradebot/internal/config"
	"tradebot/internal/exchange"
	"tradebot/internal/pricefeed"
	"tradebot/internal/repository"
	"tradebot/internal/service"
	"tradebot/internal/telegram"
	"tradebot/internal/websocket"
	"tradebot/pkg/utils"

	_ "github.com/lib/pq"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Инициализация базы данных
	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	logger.Info("connected to database", zap.String("dsn", cfg.Database.DSNWithoutPassword()))

	// Репозитории и сервисы
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	userService, err := service.NewUserService(userRepo, []byte(cfg.Security.EncryptionKey), logger)
	if err != nil {
		logger.Fatal("failed to init user service", zap.Error(err))
	}

	// WebSocket hub для трансляции событий в админку
	hub := websocket.NewHub(logger)
	go hub.Run()

	notificationService := service.NewNotificationService(notificationRepo, hub, logger)

	// Биржа и фид цен
	coinbase := exchange.NewCoinbase(cfg.Exchange.BaseURL)
	coingecko := pricefeed.NewCoinGecko(cfg.Exchange.PricefeedURL, exchange.GetGlobalHTTPClient())

	// Telegram транспорт
	transport, err := telegram.NewTransport(
		cfg.Telegram.Token,
		cfg.Telegram.PollTimeout,
		cfg.Telegram.SendRate,
		cfg.Telegram.SendBurst,
		logger,
	)
	if err != nil {
		logger.Fatal("failed to init telegram transport", zap.Error(err))
	}

	// Торговое ядро
	executor := bot.NewExecutor(bot.ExecutorConfig{
		BaseAsset:        cfg.Bot.BaseAsset,
		ProgressUpdates:  cfg.Bot.ProgressUpdates,
		ProgressInterval: cfg.Bot.ProgressInterval,
		TradeTimeout:     cfg.Exchange.Timeout * 3,
	}, userService, coinbase, transport, notificationService, logger)

	engine := bot.NewEngine(bot.EngineConfig{
		SupportedCurrencies: cfg.Bot.SupportedCurrencies,
		Coins:               pricefeed.DefaultCoins,
		NetworkTimeout:      cfg.Exchange.Timeout,
	}, userService, coinbase, coingecko, transport, executor, notificationService, logger)

	transport.SetEngine(engine)
	go transport.Run()

	// Админ API
	router := api.SetupRoutes(&api.Dependencies{
		UserService:         userService,
		NotificationService: notificationService,
		Hub:                 hub,
		Logger:              logger,
		AdminPasswordHash:   cfg.Security.AdminPasswordHash,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting admin api", zap.String("addr", server.Addr))
		var err error
		if cfg.Server.UseHTTPS {
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Транспорт первым: после возврата Stop новые сделки не запускаются
	transport.Stop()
	executor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	hub.Stop()
	exchange.CloseGlobalClient()

	logger.Info("stopped")
}

// initDatabase создает подключение к базе данных
func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Настройка пула соединений
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ensureSchema создает таблицы при первом запуске
func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id      BIGINT PRIMARY KEY,
			subscribed   BOOLEAN NOT NULL DEFAULT FALSE,
			api_key      TEXT NOT NULL DEFAULT '',
			api_secret   TEXT NOT NULL DEFAULT '',
			total_traded DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id        SERIAL PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			type      TEXT NOT NULL,
			severity  TEXT NOT NULL DEFAULT 'INFO',
			user_id   BIGINT NOT NULL DEFAULT 0,
			message   TEXT NOT NULL,
			meta      JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_timestamp ON notifications (timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
