package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"tradebot/internal/exchange"
	"tradebot/internal/models"
	"tradebot/pkg/utils"
)

// EngineConfig - настройки диалогового ядра
type EngineConfig struct {
	SupportedCurrencies []string      // валюты котировки для AI Trade
	Coins               []string      // монеты для Coin List
	NetworkTimeout      time.Duration // таймаут блокирующих сетевых вызовов внутри перехода
}

// Engine - диалоговое ядро бота.
//
// Обрабатывает события чат-транспорта строго последовательно в рамках
// одного пользователя (пер-пользовательский мьютекс в SessionStore);
// события разных пользователей не блокируют друг друга. Блокирующие
// сетевые вызовы (баланс, котировки) приостанавливают только обработку
// текущего события.
type Engine struct {
	cfg      EngineConfig
	sessions *SessionStore
	store    AccountStore
	client   exchange.Exchange
	prices   PriceFeed
	notifier Notifier
	executor *Executor
	recorder TradeRecorder
	logger   *zap.Logger
}

// NewEngine создает новое диалоговое ядро
func NewEngine(cfg EngineConfig, store AccountStore, client exchange.Exchange, prices PriceFeed, notifier Notifier, executor *Executor, recorder TradeRecorder, logger *zap.Logger) *Engine {
	if len(cfg.SupportedCurrencies) == 0 {
		cfg.SupportedCurrencies = []string{"USD", "USDT", "EUR", "GBP"}
	}
	if cfg.NetworkTimeout <= 0 {
		cfg.NetworkTimeout = 15 * time.Second
	}
	return &Engine{
		cfg:      cfg,
		sessions: NewSessionStore(),
		store:    store,
		client:   client,
		prices:   prices,
		notifier: notifier,
		executor: executor,
		recorder: recorder,
		logger:   logger,
	}
}

// Sessions возвращает хранилище сессий (для админ API)
func (e *Engine) Sessions() *SessionStore {
	return e.sessions
}

// HandleEvent обрабатывает одно входящее событие.
// Ошибки гардов никогда не портят состояние: некорректный ввод
// оставляет сессию в текущей фазе.
func (e *Engine) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Kind {
	case EventCommand:
		EventsProcessed.WithLabelValues("command").Inc()
	case EventCallback:
		EventsProcessed.WithLabelValues("callback").Inc()
	default:
		EventsProcessed.WithLabelValues("text").Inc()
	}

	e.sessions.WithSession(ev.UserID, func(sess *Session) {
		switch ev.Kind {
		case EventCommand:
			e.handleCommand(ctx, ev, sess)
		case EventText:
			e.handleText(ctx, ev, sess)
		case EventCallback:
			e.handleCallback(ctx, ev, sess)
		}
	})
}

func (e *Engine) handleCommand(ctx context.Context, ev Event, sess *Session) {
	cmd := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ev.Text)), "/")
	if cmd == "start" {
		e.handleStart(ev.UserID, sess)
		return
	}
	e.fallback(ev.UserID)
}

// handleStart создаёт учётную запись при первом контакте и показывает
// меню согласно флагу подписки
func (e *Engine) handleStart(userID int64, sess *Session) {
	user, err := e.store.GetOrCreate(userID)
	if err != nil {
		e.storageFailure(userID, sess, "get or create account", err)
		return
	}

	if user.Subscribed {
		*sess = Session{Phase: PhaseSubscribed}
		e.send(userID, "Welcome back! Choose an action:", MainMenuKeyboard())
		return
	}

	*sess = Session{Phase: PhaseAnonymous}
	e.send(userID, "Welcome to the trading bot. Subscribe to get started.", SubscribeKeyboard())
}

func (e *Engine) handleText(ctx context.Context, ev Event, sess *Session) {
	text := strings.TrimSpace(ev.Text)

	// Кнопки reply-меню имеют приоритет над свободным текстом
	switch text {
	case "Subscribe":
		e.handleSubscribe(ev.UserID, sess)
		return
	case "Unsubscribe":
		e.handleUnsubscribe(ev.UserID, sess)
		return
	case "Start Trade", "AI Trade":
		e.handleTradeButton(ctx, ev.UserID, text, sess)
		return
	case "Coin List":
		e.handleCoinList(ctx, ev.UserID, sess)
		return
	case "Trade Summary":
		e.handleTradeSummary(ev.UserID, sess)
		return
	}

	// Свободный текст интерпретируется по текущей фазе
	switch sess.Phase {
	case PhaseCollectingAPIKey:
		e.handleAPIKeyInput(ev.UserID, text, sess)
	case PhaseCollectingAPISecret:
		e.handleAPISecretInput(ctx, ev.UserID, text, sess)
	case PhaseCollectingAmount:
		e.handleAmountInput(ctx, ev.UserID, text, sess)
	default:
		e.fallback(ev.UserID)
	}
}

func (e *Engine) handleSubscribe(userID int64, sess *Session) {
	if IsAuthenticated(sess.Phase) {
		e.send(userID, "You are already subscribed.", MainMenuKeyboard())
		return
	}

	if _, err := e.store.GetOrCreate(userID); err != nil {
		e.storageFailure(userID, sess, "get or create account", err)
		return
	}
	if err := e.store.SetSubscribed(userID, true); err != nil {
		e.storageFailure(userID, sess, "set subscribed", err)
		return
	}

	*sess = Session{Phase: PhaseSubscribed}
	e.record(userID, models.NotificationTypeSubscribe, "user subscribed")
	e.send(userID, "Subscribed! Choose an action:", MainMenuKeyboard())
}

// handleUnsubscribe возвращает пользователя в исходное состояние.
// Учётные данные не трогаются: после повторной подписки меню то же,
// что и до отписки.
func (e *Engine) handleUnsubscribe(userID int64, sess *Session) {
	if !IsAuthenticated(sess.Phase) {
		e.fallback(userID)
		return
	}

	if err := e.store.SetSubscribed(userID, false); err != nil {
		e.storageFailure(userID, sess, "set subscribed", err)
		return
	}

	*sess = Session{Phase: PhaseAnonymous}
	e.record(userID, models.NotificationTypeUnsubscribe, "user unsubscribed")
	e.send(userID, "You are unsubscribed. Subscribe again any time.", SubscribeKeyboard())
}

func (e *Engine) handleTradeButton(ctx context.Context, userID int64, button string, sess *Session) {
	switch sess.Phase {
	case PhaseAnonymous, "":
		// Гард подписки: состояние не мутируется
		e.send(userID, "Please subscribe first.", SubscribeKeyboard())

	case PhaseReady:
		if button == "AI Trade" {
			sess.Phase = PhaseSelectingCurrency
			sess.PendingCurrency = ""
			sess.PendingAmount = 0
			e.send(userID, "Choose the currency to trade with:", CurrencyKeyboard(e.cfg.SupportedCurrencies))
			return
		}
		// Start Trade из Ready - повторная авторизация ключей
		sess.Phase = PhaseCollectingAPIKey
		e.send(userID, "Send your exchange API key.", nil)

	case PhaseSubscribed:
		sess.Phase = PhaseCollectingAPIKey
		e.send(userID, "Send your exchange API key.", nil)

	default:
		// Посреди другого диалогового шага
		e.send(userID, "Please finish the current step first.", nil)
	}
}

func (e *Engine) handleCoinList(ctx context.Context, userID int64, sess *Session) {
	if !IsAuthenticated(sess.Phase) {
		e.send(userID, "Please subscribe first.", SubscribeKeyboard())
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.NetworkTimeout)
	defer cancel()

	quotes, err := e.prices.GetPrices(reqCtx, e.cfg.Coins)
	if err != nil {
		e.logger.Warn("price feed unavailable", zap.Int64("user_id", userID), zap.Error(err))
		e.send(userID, "Could not fetch coin prices right now. Try again later.", nil)
		return
	}

	var b strings.Builder
	b.WriteString("Current prices (USD):\n")
	for _, q := range quotes {
		fmt.Fprintf(&b, "%s: $%.2f\n", q.ID, q.Price)
	}
	e.send(userID, b.String(), nil)
}

func (e *Engine) handleTradeSummary(userID int64, sess *Session) {
	if !IsAuthenticated(sess.Phase) {
		e.send(userID, "Please subscribe first.", SubscribeKeyboard())
		return
	}

	total, err := e.store.TotalTraded(userID)
	if err != nil {
		e.storageFailure(userID, sess, "get total traded", err)
		return
	}

	e.send(userID, fmt.Sprintf("Total traded volume: %.2f", total), nil)
}

func (e *Engine) handleAPIKeyInput(userID int64, text string, sess *Session) {
	if err := utils.ValidateAPIKey(text); err != nil {
		TransitionErrors.WithLabelValues("validation").Inc()
		e.send(userID, "That does not look like a valid API key. Send your exchange API key.", nil)
		return
	}

	if err := e.store.SetAPIKey(userID, text); err != nil {
		e.storageFailure(userID, sess, "set api key", err)
		return
	}

	sess.Phase = PhaseCollectingAPISecret
	e.send(userID, "Now send your exchange API secret.", nil)
}

// handleAPISecretInput сохраняет секрет и валидирует пару ключей
// запросом балансов. При неудаче валидации пользователь остаётся на
// этом шаге; сохранённый ключ не откатывается.
func (e *Engine) handleAPISecretInput(ctx context.Context, userID int64, text string, sess *Session) {
	if text == "" {
		TransitionErrors.WithLabelValues("validation").Inc()
		e.send(userID, "API secret cannot be empty. Send your exchange API secret.", nil)
		return
	}

	if err := e.store.SetAPISecret(userID, text); err != nil {
		e.storageFailure(userID, sess, "set api secret", err)
		return
	}

	creds, err := e.store.Credentials(userID)
	if err != nil {
		e.storageFailure(userID, sess, "load credentials", err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.NetworkTimeout)
	defer cancel()

	balances, err := e.client.GetBalances(reqCtx, creds)
	if err != nil {
		TransitionErrors.WithLabelValues("exchange").Inc()
		e.record(userID, models.NotificationTypeAPIError, fmt.Sprintf("credential validation failed: %v", err))
		e.send(userID, "Could not validate your credentials with the exchange. Send your API secret again.", nil)
		return
	}

	sess.Phase = PhaseReady

	var b strings.Builder
	b.WriteString("Credentials verified. Your balances:\n")
	for currency, amount := range balances {
		if amount > 0 {
			fmt.Fprintf(&b, "%s: %.8f\n", currency, amount)
		}
	}
	b.WriteString("\nUse AI Trade to start trading.")
	e.send(userID, b.String(), MainMenuKeyboard())
}

func (e *Engine) handleAmountInput(ctx context.Context, userID int64, text string, sess *Session) {
	amount, err := utils.ParseAmount(text)
	if err != nil {
		TransitionErrors.WithLabelValues("validation").Inc()
		e.send(userID, "Please enter a positive number, e.g. 100.", nil)
		return
	}

	creds, err := e.store.Credentials(userID)
	if err != nil {
		e.storageFailure(userID, sess, "load credentials", err)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.NetworkTimeout)
	defer cancel()

	if !e.client.HasSufficientBalance(reqCtx, creds, amount, sess.PendingCurrency) {
		TransitionErrors.WithLabelValues("validation").Inc()
		e.send(userID, fmt.Sprintf("Insufficient %s balance for %.2f. Enter a smaller amount.",
			sess.PendingCurrency, amount), nil)
		return
	}

	sess.PendingAmount = amount
	sess.Phase = PhaseSelectingStrategy
	e.send(userID, "Choose a trading strategy:", StrategyKeyboard(amount, sess.PendingCurrency))
}

func (e *Engine) handleCallback(ctx context.Context, ev Event, sess *Session) {
	parsed, err := ParseCallback(ev.Data)
	if err != nil {
		TransitionErrors.WithLabelValues("protocol").Inc()
		e.logger.Warn("malformed callback", zap.Int64("user_id", ev.UserID), zap.Error(err))
		e.send(ev.UserID, "Something went wrong. Use the menu buttons.", nil)
		return
	}

	switch cb := parsed.(type) {
	case *CurrencyCallback:
		e.handleCurrencySelected(ev.UserID, cb, sess)
	case *StrategyCallback:
		e.handleStrategySelected(ev.UserID, cb, sess)
	}
}

func (e *Engine) handleCurrencySelected(userID int64, cb *CurrencyCallback, sess *Session) {
	if sess.Phase != PhaseSelectingCurrency {
		e.send(userID, "This choice is no longer active. Use the menu buttons.", nil)
		return
	}

	if !utils.ValidateCurrency(cb.Currency, e.cfg.SupportedCurrencies) {
		TransitionErrors.WithLabelValues("validation").Inc()
		e.send(userID, "Unsupported currency. Choose one of the offered options.", nil)
		return
	}

	// Новое событие перезаписывает прежнее pending значение
	sess.PendingCurrency = cb.Currency
	sess.PendingAmount = 0
	sess.Phase = PhaseCollectingAmount
	e.send(userID, fmt.Sprintf("How much %s do you want to trade?", cb.Currency), nil)
}

func (e *Engine) handleStrategySelected(userID int64, cb *StrategyCallback, sess *Session) {
	if sess.Phase != PhaseSelectingStrategy {
		e.send(userID, "This choice is no longer active. Use the menu buttons.", nil)
		return
	}

	if !ValidStrategy(cb.StrategyID) {
		TransitionErrors.WithLabelValues("protocol").Inc()
		e.send(userID, "Unknown strategy. Choose one of the offered options.", nil)
		return
	}

	// Запуск асинхронный: ответ пользователю возвращается немедленно
	e.executor.Launch(userID, cb.StrategyID, cb.Amount, cb.Currency)

	*sess = Session{Phase: PhaseReady}
	e.send(userID, fmt.Sprintf("%s trade for %.2f %s started. You will be notified shortly.",
		StrategyName(cb.StrategyID), cb.Amount, cb.Currency), MainMenuKeyboard())
}

// storageFailure сообщает об ошибке хранилища, не меняя фазу сессии
func (e *Engine) storageFailure(userID int64, sess *Session, op string, err error) {
	TransitionErrors.WithLabelValues("storage").Inc()
	serr := &StorageError{Op: op, Err: err}
	e.logger.Error("storage failure",
		zap.Int64("user_id", userID),
		zap.String("phase", sess.Phase),
		zap.Error(serr),
	)
	e.send(userID, "A storage error occurred. Please try again.", nil)
}

func (e *Engine) fallback(userID int64) {
	e.send(userID, "I did not understand that. Use the menu buttons.", nil)
}

func (e *Engine) send(userID int64, text string, kb *Keyboard) {
	if err := e.notifier.Send(userID, text, kb); err != nil {
		e.logger.Warn("send failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (e *Engine) record(userID int64, typ, message string) {
	if e.recorder == nil {
		return
	}
	e.recorder.Record(&models.Notification{
		Type:     typ,
		Severity: models.SeverityInfo,
		UserID:   userID,
		Message:  message,
	})
}
