package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub, topic string) *Client {
	return &Client{
		hub:   hub,
		topic: topic,
		send:  make(chan []byte, 256),
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(nil)
	go hub.Run(ctx)
	return hub
}

func TestHubRegistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicKitchen)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[TopicKitchen] == nil {
		t.Fatal("kitchen room not created")
	}
	if !hub.rooms[TopicKitchen][client] {
		t.Fatal("client not registered in kitchen room")
	}
}

func TestHubUnregistration(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicKitchen)

	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.unregister <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[TopicKitchen] != nil {
		t.Fatal("room not cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Fatal("send channel should be closed")
	}
}

func TestBroadcastToSingleTopic(t *testing.T) {
	hub := startHub(t)
	kitchen := mockClient(hub, TopicKitchen)
	stock := mockClient(hub, TopicStock)

	hub.register <- kitchen
	hub.register <- stock
	time.Sleep(10 * time.Millisecond)

	testPayload := json.RawMessage(`{"order_id":42}`)
	hub.Broadcast(TopicKitchen, Event{Type: "order.created", Payload: testPayload})

	select {
	case msg := <-kitchen.send:
		var received Event
		if err := json.Unmarshal(msg, &received); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		if received.Type != "order.created" {
			t.Errorf("expected type 'order.created', got '%s'", received.Type)
		}
		if string(received.Payload) != string(testPayload) {
			t.Errorf("expected payload '%s', got '%s'", testPayload, received.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("kitchen client did not receive message")
	}

	select {
	case <-stock.send:
		t.Fatal("stock client should not have received a kitchen message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastToMultipleClientsOnSameTopic(t *testing.T) {
	hub := startHub(t)
	clients := []*Client{
		mockClient(hub, TopicKitchen),
		mockClient(hub, TopicKitchen),
		mockClient(hub, TopicKitchen),
	}
	for _, c := range clients {
		hub.register <- c
	}
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(TopicKitchen, Event{Type: "order.status_changed", Payload: json.RawMessage(`{"status":"Completed"}`)})

	for i, client := range clients {
		select {
		case msg := <-client.send:
			var received Event
			if err := json.Unmarshal(msg, &received); err != nil {
				t.Fatalf("client%d: failed to unmarshal: %v", i+1, err)
			}
			if received.Type != "order.status_changed" {
				t.Errorf("client%d: got type '%s'", i+1, received.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("client%d did not receive message", i+1)
		}
	}
}

func TestBroadcastToEmptyTopic(t *testing.T) {
	hub := startHub(t)
	client := mockClient(hub, TopicKitchen)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(TopicStock, Event{Type: "checkout.rejected", Payload: json.RawMessage(`{}`)})

	select {
	case <-client.send:
		t.Fatal("client should not receive message for a different topic")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := &Client{hub: hub, topic: TopicKitchen, send: make(chan []byte, 1)}
	hub.register <- slow
	time.Sleep(10 * time.Millisecond)

	hub.Broadcast(TopicKitchen, Event{Type: "a", Payload: json.RawMessage(`1`)})
	hub.Broadcast(TopicKitchen, Event{Type: "b", Payload: json.RawMessage(`2`)})
	time.Sleep(20 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if hub.rooms[TopicKitchen] != nil {
		t.Fatal("slow client should have been dropped")
	}
}

func TestHubStopClosesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := mockClient(hub, TopicKitchen)
	hub.register <- client
	time.Sleep(10 * time.Millisecond)

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-client.send; ok {
		t.Fatal("send channel should be closed on shutdown")
	}
	if hub.join(mockClient(hub, TopicKitchen)) {
		t.Fatal("join should fail after shutdown")
	}
	hub.leave(client) // must not block
}
