package handlers

import (
	"context"
	"log"

	"github.com/gorilla/websocket"
	"github.com/mapleleafu/snakearena/snakearena-backend/models"
	"github.com/mapleleafu/snakearena/snakearena-backend/protocol"
)

// Connection represents a WebSocket connection and the session it belongs to.
type Connection struct {
	ws        *websocket.Conn
	send      chan []byte
	sessionID string
	codec     protocol.Codec
}

type directMessage struct {
	sessionID string
	msg       interface{}
}

// Hub maintains the set of active connections and fans game output out to
// them. It implements game.Publisher.
type Hub struct {
	// Registered connections, keyed by session id.
	connections map[string]*Connection

	broadcast  chan models.StateUpdate
	direct     chan directMessage
	register   chan *Connection
	unregister chan *Connection

	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		broadcast:   make(chan models.StateUpdate),
		direct:      make(chan directMessage),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		done:        make(chan struct{}),
	}
}

// Run owns the connection set until ctx is cancelled, then closes every
// connection's send channel. The channels are unbuffered so messages reach
// the hub in the order the game produced them.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for id, c := range h.connections {
			close(c.send)
			delete(h.connections, id)
		}
		log.Println("Hub stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			if old, ok := h.connections[c.sessionID]; ok {
				close(old.send)
			}
			h.connections[c.sessionID] = c
		case c := <-h.unregister:
			// The slot may already belong to a newer connection for the same id.
			if current, ok := h.connections[c.sessionID]; ok && current == c {
				delete(h.connections, c.sessionID)
				close(c.send)
			}
		case update := <-h.broadcast:
			h.fanOut(update)
		case d := <-h.direct:
			h.sendTo(d.sessionID, d.msg)
		}
	}
}

// Register adds c to the hub. It reports false once the hub has stopped.
func (h *Hub) Register(c *Connection) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Connection) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast sends a state update to every registered connection.
func (h *Hub) Broadcast(update models.StateUpdate) {
	select {
	case h.broadcast <- update:
	case <-h.done:
	}
}

// Send delivers msg to a single session, if it is connected.
func (h *Hub) Send(sessionID string, msg interface{}) {
	select {
	case h.direct <- directMessage{sessionID: sessionID, msg: msg}:
	case <-h.done:
	}
}

// fanOut encodes the update once per codec in use.
func (h *Hub) fanOut(update models.StateUpdate) {
	msg := models.NewStateUpdateMessage(update)
	frames := make(map[string][]byte)

	for _, c := range h.connections {
		frame, ok := frames[c.codec.Name()]
		if !ok {
			encoded, err := c.codec.Marshal(msg)
			if err != nil {
				log.Printf("Error encoding state update as %s: %v", c.codec.Name(), err)
				continue
			}
			frames[c.codec.Name()] = encoded
			frame = encoded
		}
		h.deliver(c, frame)
	}
}

func (h *Hub) sendTo(sessionID string, msg interface{}) {
	c, ok := h.connections[sessionID]
	if !ok {
		return
	}
	frame, err := c.codec.Marshal(msg)
	if err != nil {
		log.Printf("Error encoding message for %s: %v", sessionID, err)
		return
	}
	h.deliver(c, frame)
}

// deliver never blocks. A connection whose buffer is full is dropped; its
// write pump then closes the socket.
func (h *Hub) deliver(c *Connection, frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Printf("Dropping slow connection %s", c.sessionID)
		close(c.send)
		delete(h.connections, c.sessionID)
	}
}
