package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
	"github.com/mapleleafu/snakearena/snakearena-backend/protocol"
	"github.com/vmihailenco/msgpack/v5"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub()
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func newTestConnection(id string, codec protocol.Codec, buffer int) *Connection {
	return &Connection{send: make(chan []byte, buffer), sessionID: id, codec: codec}
}

func receive(t *testing.T, c *Connection) ([]byte, bool) {
	t.Helper()
	select {
	case frame, ok := <-c.send:
		return frame, ok
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting on %s", c.sessionID)
		return nil, false
	}
}

func TestHubBroadcastPerCodec(t *testing.T) {
	h, _ := runHub(t)
	text := newTestConnection("t", protocol.JSON, 4)
	binary := newTestConnection("b", protocol.MsgPack, 4)
	h.Register(text)
	h.Register(binary)

	update := models.StateUpdate{Food: models.Cell{X: 1, Y: 2}, Players: []models.PlayerView{}}
	h.Broadcast(update)

	frame, _ := receive(t, text)
	var fromJSON models.StateUpdateMessage
	if err := json.Unmarshal(frame, &fromJSON); err != nil {
		t.Fatalf("json frame: %v", err)
	}
	frame, _ = receive(t, binary)
	var fromMsgpack models.StateUpdateMessage
	if err := msgpack.Unmarshal(frame, &fromMsgpack); err != nil {
		t.Fatalf("msgpack frame: %v", err)
	}

	for _, msg := range []models.StateUpdateMessage{fromJSON, fromMsgpack} {
		if msg.Type != models.MessageStateUpdate || msg.Data.Food != update.Food {
			t.Fatalf("unexpected message %+v", msg)
		}
	}
}

func TestHubSendTargetsOneSession(t *testing.T) {
	h, _ := runHub(t)
	a := newTestConnection("a", protocol.JSON, 4)
	b := newTestConnection("b", protocol.JSON, 4)
	h.Register(a)
	h.Register(b)

	h.Send("a", models.InitMessage{Type: models.MessageInit})
	h.Send("nobody", models.InitMessage{Type: models.MessageInit})
	h.Broadcast(models.StateUpdate{})

	first, _ := receive(t, a)
	var initMsg models.InitMessage
	if err := json.Unmarshal(first, &initMsg); err != nil || initMsg.Type != models.MessageInit {
		t.Fatalf("expected init for a, got %s (%v)", first, err)
	}

	frame, _ := receive(t, b)
	var msg models.StateUpdateMessage
	if err := json.Unmarshal(frame, &msg); err != nil || msg.Type != models.MessageStateUpdate {
		t.Fatalf("expected b to see only the broadcast, got %s (%v)", frame, err)
	}
}

func TestHubDropsSlowConnection(t *testing.T) {
	h, _ := runHub(t)
	slow := newTestConnection("slow", protocol.JSON, 1)
	h.Register(slow)

	h.Broadcast(models.StateUpdate{})
	h.Broadcast(models.StateUpdate{})

	if _, ok := receive(t, slow); !ok {
		t.Fatalf("expected the first frame to be buffered")
	}
	if _, ok := receive(t, slow); ok {
		t.Fatalf("expected the slow connection to be closed")
	}

	// Unregistering a dropped connection must not close its channel twice.
	h.Unregister(slow)
	h.Broadcast(models.StateUpdate{})
}

func TestHubIgnoresStaleUnregister(t *testing.T) {
	h, _ := runHub(t)
	old := newTestConnection("x", protocol.JSON, 4)
	fresh := newTestConnection("x", protocol.JSON, 4)
	h.Register(old)
	h.Register(fresh)

	if _, ok := receive(t, old); ok {
		t.Fatalf("expected the replaced connection to be closed")
	}

	h.Unregister(old)
	h.Broadcast(models.StateUpdate{})
	if _, ok := receive(t, fresh); !ok {
		t.Fatalf("expected the newer connection to stay registered")
	}
}

func TestHubStopClosesConnections(t *testing.T) {
	h, cancel := runHub(t)
	c := newTestConnection("c", protocol.JSON, 4)
	h.Register(c)

	cancel()
	if _, ok := receive(t, c); ok {
		t.Fatalf("expected send channel to be closed on stop")
	}

	if h.Register(newTestConnection("late", protocol.JSON, 4)) {
		t.Fatalf("expected register to fail after stop")
	}
	h.Broadcast(models.StateUpdate{})
	h.Send("c", models.InitMessage{})
	h.Unregister(c)
}
