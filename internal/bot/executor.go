package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"tradebot/internal/exchange"
	"tradebot/internal/models"
)

// ExecutorConfig - настройки фонового исполнителя сделок
type ExecutorConfig struct {
	BaseAsset        string        // базовый актив продукта (default: BTC)
	ProgressUpdates  int           // число отложенных прогресс-уведомлений (default: 5)
	ProgressInterval time.Duration // интервал между уведомлениями (default: 10s)
	TradeTimeout     time.Duration // таймаут сетевых вызовов одной сделки (default: 30s)
}

// Executor запускает сделки как supervised фоновые задачи.
//
// Каждая сделка: свежее чтение ключей, запуск стратегии, обновление
// total_traded (только при успехе), основное уведомление (успех или
// причина неудачи), затем серия отложенных прогресс-уведомлений
// независимо от исхода. Ошибки переводятся в сообщения пользователю
// и не роняют процесс.
type Executor struct {
	cfg      ExecutorConfig
	store    AccountStore
	client   exchange.Exchange
	notifier Notifier
	recorder TradeRecorder
	logger   *zap.Logger

	wg       sync.WaitGroup
	shutdown chan struct{}
	stopOnce sync.Once
}

// NewExecutor создает новый исполнитель сделок
func NewExecutor(cfg ExecutorConfig, store AccountStore, client exchange.Exchange, notifier Notifier, recorder TradeRecorder, logger *zap.Logger) *Executor {
	if cfg.BaseAsset == "" {
		cfg.BaseAsset = "BTC"
	}
	if cfg.ProgressUpdates <= 0 {
		cfg.ProgressUpdates = 5
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = 10 * time.Second
	}
	if cfg.TradeTimeout <= 0 {
		cfg.TradeTimeout = 30 * time.Second
	}
	return &Executor{
		cfg:      cfg,
		store:    store,
		client:   client,
		notifier: notifier,
		recorder: recorder,
		logger:   logger,
		shutdown: make(chan struct{}),
	}
}

// Launch запускает сделку в фоне и возвращается немедленно.
// Вызывающий (state machine) уже проверил сумму, валюту и стратегию.
func (e *Executor) Launch(userID int64, strategyID int, amount float64, currency string) {
	e.wg.Add(1)
	ActiveExecutors.Inc()
	go func() {
		defer e.wg.Done()
		defer ActiveExecutors.Dec()
		e.run(userID, strategyID, amount, currency)
	}()
}

// Stop прекращает планирование отложенных уведомлений и дожидается
// завершения запущенных сделок. Вызывается при graceful shutdown.
func (e *Executor) Stop() {
	e.stopOnce.Do(func() {
		close(e.shutdown)
	})
	e.wg.Wait()
}

func (e *Executor) run(userID int64, strategyID int, amount float64, currency string) {
	start := time.Now()
	strategy := StrategyName(strategyID)

	log := e.logger.With(
		zap.Int64("user_id", userID),
		zap.String("strategy", strategy),
		zap.Float64("amount", amount),
		zap.String("currency", currency),
	)
	log.Info("trade started")

	// Свежее чтение ключей: триггер-событие могло устареть
	creds, err := e.store.Credentials(userID)
	if err != nil {
		log.Error("credentials fetch failed", zap.Error(err))
		e.notify(userID, "Trade failed: could not load your API credentials. Please try again.")
		e.record(userID, models.NotificationTypeTradeFail, models.SeverityError,
			fmt.Sprintf("credentials fetch failed: %v", err), strategyID, amount, currency)
		TradesExecuted.WithLabelValues(strategy, "error").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.TradeTimeout)
	summary, err := RunStrategy(ctx, e.client, creds, e.cfg.BaseAsset, strategyID, amount, currency)
	cancel()
	TradeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		// Неудача сделки - данные, а не паника: пользователь получает
		// причину, total_traded не меняется
		log.Warn("trade failed", zap.Error(err))
		e.notify(userID, fmt.Sprintf("Trade failed: %v", err))
		e.record(userID, models.NotificationTypeTradeFail, models.SeverityError, err.Error(), strategyID, amount, currency)
		TradesExecuted.WithLabelValues(strategy, "fail").Inc()
	} else {
		severity := models.SeverityInfo
		message := summary
		if err := e.store.AddTraded(userID, amount); err != nil {
			// Сделка исполнена, но учёт не записан: деградация видна
			// и пользователю, и в журнале
			log.Error("total_traded update failed", zap.Error(err))
			e.notify(userID, summary+"\n\nWarning: trade volume accounting failed.")
			severity = models.SeverityWarn
			message = summary + " (trade volume accounting failed)"
		} else {
			e.notify(userID, summary)
		}
		e.record(userID, models.NotificationTypeTradeOK, severity, message, strategyID, amount, currency)
		TradesExecuted.WithLabelValues(strategy, "ok").Inc()
		log.Info("trade completed", zap.Duration("took", time.Since(start)))
	}

	// Мониторинг следует за основным результатом при любом исходе сделки
	e.progressUpdates(userID, strategy)
}

// progressUpdates отправляет фиксированную серию отложенных уведомлений
// пост-трейд мониторинга. Порядок внутри серии строгий (i перед i+1),
// но серии разных сделок могут перемежаться произвольно.
func (e *Executor) progressUpdates(userID int64, strategy string) {
	timer := time.NewTimer(e.cfg.ProgressInterval)
	defer timer.Stop()

	for i := 1; i <= e.cfg.ProgressUpdates; i++ {
		select {
		case <-timer.C:
			e.notify(userID, fmt.Sprintf("Monitoring update %d/%d: %s position is being tracked.",
				i, e.cfg.ProgressUpdates, strategy))
			e.record(userID, models.NotificationTypeProgress, models.SeverityInfo,
				fmt.Sprintf("progress %d/%d", i, e.cfg.ProgressUpdates), 0, 0, "")
			timer.Reset(e.cfg.ProgressInterval)
		case <-e.shutdown:
			// Дальнейшие уведомления не планируются
			return
		}
	}
}

func (e *Executor) notify(userID int64, text string) {
	if err := e.notifier.Send(userID, text, nil); err != nil {
		e.logger.Warn("notification delivery failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (e *Executor) record(userID int64, typ, severity, message string, strategyID int, amount float64, currency string) {
	if e.recorder == nil {
		return
	}
	notif := &models.Notification{
		Type:     typ,
		Severity: severity,
		UserID:   userID,
		Message:  message,
	}
	if strategyID > 0 {
		notif.Meta = map[string]interface{}{
			"strategy": strategyID,
			"amount":   amount,
			"currency": currency,
		}
	}
	e.recorder.Record(notif)
}
