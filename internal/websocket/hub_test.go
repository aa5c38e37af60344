package websocket

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewHub(t *testing.T) {
	hub := NewHub(zap.NewNop())

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHubBroadcastNonBlocking(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	// Переполняем очередь: Broadcast не должен заблокироваться
	for i := 0; i < 10000; i++ {
		hub.Broadcast([]byte(`{"type":"test"}`))
	}
}

func TestHubStop(t *testing.T) {
	hub := NewHub(zap.NewNop())

	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	hub.Stop()

	select {
	case <-done:
		// Run завершился
	case <-time.After(time.Second):
		t.Error("Hub.Run() did not exit after Stop()")
	}
}

func TestHubDeliverToClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	client := &Client{hub: hub, send: make(chan []byte, 4), logger: zap.NewNop()}
	hub.register <- client

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(time.Millisecond)
	}

	hub.Broadcast([]byte(`{"type":"TRADE_OK"}`))

	select {
	case msg := <-client.send:
		if string(msg) != `{"type":"TRADE_OK"}` {
			t.Errorf("unexpected message: %s", msg)
		}
	case <-time.After(time.Second):
		t.Error("message was not delivered to client")
	}
}

func TestHubRemovesSlowClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	go hub.Run()
	defer hub.Stop()

	// Клиент с нулевым буфером никогда не успевает
	client := &Client{hub: hub, send: make(chan []byte), logger: zap.NewNop()}
	hub.register <- client

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client was not registered")
		}
		time.Sleep(time.Millisecond)
	}

	hub.Broadcast([]byte("x"))

	deadline = time.Now().Add(time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("slow client was not removed")
		}
		time.Sleep(time.Millisecond)
	}
}
