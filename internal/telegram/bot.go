// Package telegram - чат-транспорт бота: приём апдейтов Telegram и
// доставка исходящих сообщений ядра.
package telegram

import (
	"context"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tradebot/internal/bot"
	"tradebot/pkg/ratelimit"
)

// eventHandler - приёмник событий транспорта (диалоговое ядро)
type eventHandler interface {
	HandleEvent(ctx context.Context, ev bot.Event)
}

// Transport связывает Telegram Bot API с диалоговым ядром.
//
// Входящие сообщения переводятся в тегированные события ядра;
// исходящие проходят пер-чатовый rate limiter, чтобы не упираться
// в лимиты Telegram при серии уведомлений одной сделки.
type Transport struct {
	api    *tgbotapi.BotAPI
	engine eventHandler
	logger *zap.Logger

	pollTimeout time.Duration

	sendRate  float64
	sendBurst float64
	limiters  map[int64]*ratelimit.RateLimiter
	limMu     sync.Mutex

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTransport создает транспорт и проверяет токен обращением к API
func NewTransport(token string, pollTimeout time.Duration, sendRate, sendBurst float64, logger *zap.Logger) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Transport{
		api:         api,
		logger:      logger,
		pollTimeout: pollTimeout,
		sendRate:    sendRate,
		sendBurst:   sendBurst,
		limiters:    make(map[int64]*ratelimit.RateLimiter),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}, nil
}

// SetEngine подключает диалоговое ядро.
// Вызывается после создания ядра: ядро получает транспорт как Notifier,
// транспорт получает ядро как обработчик событий.
func (t *Transport) SetEngine(engine *bot.Engine) {
	t.engine = engine
}

var _ bot.Notifier = (*Transport)(nil)

// Run запускает long-poll цикл приёма апдейтов.
// Блокирует до вызова Stop.
func (t *Transport) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(t.pollTimeout.Seconds())

	t.loop(t.api.GetUpdatesChan(u))
	t.api.StopReceivingUpdates()
}

// loop обрабатывает апдейты до вызова Stop. К моменту выхода все
// запущенные обработчики завершены, новые события ядру не передаются.
func (t *Transport) loop(updates tgbotapi.UpdatesChannel) {
	defer close(t.done)
	for {
		select {
		case update := <-updates:
			t.dispatch(update)
		case <-t.stop:
			t.wg.Wait()
			return
		}
	}
}

// Stop останавливает приём апдейтов и блокирует до выхода цикла Run:
// после возврата ядро гарантированно не получает новых событий.
// Вызывается после запуска Run.
func (t *Transport) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	<-t.done
}

// dispatch подтверждает callback и передаёт событие ядру.
// Каждое событие обрабатывается в своей горутине: сериализацию
// в рамках одного пользователя обеспечивает само ядро.
func (t *Transport) dispatch(update tgbotapi.Update) {
	if cb := update.CallbackQuery; cb != nil {
		// Telegram ждёт подтверждения callback, иначе у пользователя
		// крутится спиннер
		if _, err := t.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			t.logger.Warn("callback ack failed", zap.Error(err))
		}
	}

	ev, ok := eventFromUpdate(update)
	if !ok {
		return
	}
	t.handleAsync(ev)
}

// eventFromUpdate переводит апдейт Telegram в событие ядра.
// Идентичность пользователя - отправитель (From), не чат: в групповом
// чате их id различаются. Ответы ядро шлёт на id пользователя, то есть
// в его личный чат с ботом.
func eventFromUpdate(update tgbotapi.Update) (bot.Event, bool) {
	switch {
	case update.Message != nil:
		msg := update.Message
		ev := bot.Event{UserID: senderID(msg.From, msg.Chat), Kind: bot.EventText, Text: msg.Text}
		if msg.IsCommand() {
			ev.Kind = bot.EventCommand
			ev.Text = msg.Command()
		}
		return ev, true

	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil {
			return bot.Event{}, false
		}
		return bot.Event{
			UserID: senderID(cb.From, cb.Message.Chat),
			Kind:   bot.EventCallback,
			Data:   cb.Data,
		}, true
	}
	return bot.Event{}, false
}

// senderID возвращает id отправителя, для анонимных постов - id чата
func senderID(from *tgbotapi.User, chat *tgbotapi.Chat) int64 {
	if from != nil {
		return from.ID
	}
	if chat != nil {
		return chat.ID
	}
	return 0
}

func (t *Transport) handleAsync(ev bot.Event) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.engine.HandleEvent(context.Background(), ev)
	}()
}

// Send доставляет сообщение пользователю. Реализует bot.Notifier.
func (t *Transport) Send(userID int64, text string, kb *bot.Keyboard) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := t.limiter(userID).Wait(ctx); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(userID, text)
	if kb != nil {
		msg.ReplyMarkup = renderKeyboard(kb)
	}

	_, err := t.api.Send(msg)
	return err
}

// limiter возвращает rate limiter чата, создавая его при первом обращении
func (t *Transport) limiter(chatID int64) *ratelimit.RateLimiter {
	t.limMu.Lock()
	defer t.limMu.Unlock()
	rl, ok := t.limiters[chatID]
	if !ok {
		rl = ratelimit.NewRateLimiter(t.sendRate, t.sendBurst)
		t.limiters[chatID] = rl
	}
	return rl
}
