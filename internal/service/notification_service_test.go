package service

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"tradebot/internal/models"
)

type fakeNotificationRepo struct {
	created []*models.Notification
	fail    bool
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	if f.fail {
		return errors.New("db down")
	}
	n.ID = len(f.created) + 1
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) GetRecent(limit int) ([]*models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) GetByTypes(types []string, limit int) ([]*models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) GetByUser(userID int64, limit int) ([]*models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) DeleteAll() error {
	f.created = nil
	return nil
}

func (f *fakeNotificationRepo) DeleteOlderThan(olderThan time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) Count() (int, error) {
	return len(f.created), nil
}

type fakeBroadcaster struct {
	messages [][]byte
}

func (f *fakeBroadcaster) Broadcast(message []byte) {
	f.messages = append(f.messages, message)
}

func TestNotificationServiceRecord(t *testing.T) {
	repo := &fakeNotificationRepo{}
	hub := &fakeBroadcaster{}
	svc := NewNotificationService(repo, hub, zap.NewNop())

	svc.Record(&models.Notification{
		Type:    models.NotificationTypeTradeOK,
		UserID:  42,
		Message: "trade executed",
	})

	if len(repo.created) != 1 {
		t.Fatalf("записано %d уведомлений, ожидалось 1", len(repo.created))
	}
	if repo.created[0].Timestamp.IsZero() {
		t.Error("timestamp не проставлен")
	}
	if len(hub.messages) != 1 {
		t.Fatalf("разослано %d сообщений, ожидалось 1", len(hub.messages))
	}
}

// Ошибка БД не прерывает обработку: событие всё равно рассылается
func TestNotificationServiceRecordPersistFailure(t *testing.T) {
	repo := &fakeNotificationRepo{fail: true}
	hub := &fakeBroadcaster{}
	svc := NewNotificationService(repo, hub, zap.NewNop())

	svc.Record(&models.Notification{
		Type:    models.NotificationTypeTradeFail,
		UserID:  42,
		Message: "trade failed",
	})

	if len(hub.messages) != 1 {
		t.Fatalf("разослано %d сообщений, ожидалось 1", len(hub.messages))
	}
}

func TestNotificationServiceRecordWithoutHub(t *testing.T) {
	repo := &fakeNotificationRepo{}
	svc := NewNotificationService(repo, nil, zap.NewNop())

	// nil hub не должен приводить к панике
	svc.Record(&models.Notification{
		Type:    models.NotificationTypeSubscribe,
		UserID:  42,
		Message: "subscribed",
	})

	if len(repo.created) != 1 {
		t.Fatalf("записано %d уведомлений, ожидалось 1", len(repo.created))
	}
}
