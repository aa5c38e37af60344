package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"tradebot/internal/bot"
	"tradebot/pkg/ratelimit"
)

func messageUpdate(fromID, chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: fromID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
	}}
}

func TestEventFromUpdateText(t *testing.T) {
	ev, ok := eventFromUpdate(messageUpdate(7, 7, "Coin List"))
	if !ok {
		t.Fatal("событие не извлечено")
	}
	if ev.Kind != bot.EventText || ev.Text != "Coin List" || ev.UserID != 7 {
		t.Errorf("неверное событие: %+v", ev)
	}
}

// В групповом чате идентичность - отправитель, а не чат
func TestEventFromUpdateGroupChatUsesSender(t *testing.T) {
	ev, ok := eventFromUpdate(messageUpdate(7, -100200, "Trade Summary"))
	if !ok {
		t.Fatal("событие не извлечено")
	}
	if ev.UserID != 7 {
		t.Errorf("UserID = %d, ожидался id отправителя 7", ev.UserID)
	}
}

func TestEventFromUpdateCommand(t *testing.T) {
	u := messageUpdate(7, 7, "/start")
	u.Message.Entities = []tgbotapi.MessageEntity{
		{Type: "bot_command", Offset: 0, Length: 6},
	}

	ev, ok := eventFromUpdate(u)
	if !ok {
		t.Fatal("событие не извлечено")
	}
	if ev.Kind != bot.EventCommand || ev.Text != "start" {
		t.Errorf("неверное событие команды: %+v", ev)
	}
}

func TestEventFromUpdateCallback(t *testing.T) {
	u := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: -100200}},
		Data:    "currency:USD",
	}}

	ev, ok := eventFromUpdate(u)
	if !ok {
		t.Fatal("событие не извлечено")
	}
	if ev.Kind != bot.EventCallback || ev.Data != "currency:USD" || ev.UserID != 7 {
		t.Errorf("неверное callback событие: %+v", ev)
	}
}

// Callback без сообщения (устаревший inline-запрос) отбрасывается
func TestEventFromUpdateCallbackWithoutMessage(t *testing.T) {
	u := tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: 7},
		Data: "currency:USD",
	}}

	if _, ok := eventFromUpdate(u); ok {
		t.Error("callback без сообщения не должен порождать событие")
	}
}

type blockingHandler struct {
	startOnce sync.Once
	started   chan struct{}
	release   chan struct{}
}

func newBlockingHandler() *blockingHandler {
	return &blockingHandler{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (h *blockingHandler) HandleEvent(ctx context.Context, ev bot.Event) {
	h.startOnce.Do(func() { close(h.started) })
	<-h.release
}

func newTestTransport(h eventHandler) *Transport {
	return &Transport{
		engine:   h,
		logger:   zap.NewNop(),
		limiters: make(map[int64]*ratelimit.RateLimiter),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Stop не возвращается, пока не завершены запущенные обработчики:
// после Stop ядро не получает новых событий
func TestTransportStopWaitsForHandlers(t *testing.T) {
	h := newBlockingHandler()
	tr := newTestTransport(h)

	updates := make(chan tgbotapi.Update, 1)
	updates <- messageUpdate(7, 7, "Coin List")
	go tr.loop(updates)

	select {
	case <-h.started:
	case <-time.After(2 * time.Second):
		t.Fatal("обработчик не запустился")
	}

	stopped := make(chan struct{})
	go func() {
		tr.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop вернулся до завершения обработчика")
	case <-time.After(50 * time.Millisecond):
	}

	close(h.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop не вернулся после завершения обработчика")
	}
}
