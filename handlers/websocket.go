package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mapleleafu/snakearena/snakearena-backend/config"
	"github.com/mapleleafu/snakearena/snakearena-backend/game"
	"github.com/mapleleafu/snakearena/snakearena-backend/protocol"
	"github.com/mapleleafu/snakearena/snakearena-backend/responses"
	"github.com/mapleleafu/snakearena/snakearena-backend/utils"
)

// GameHandler serves the websocket gateway and the read-only HTTP API for a
// single game.
type GameHandler struct {
	game     *game.Game
	hub      *Hub
	cfg      *config.Config
	upgrader websocket.Upgrader
}

func NewGameHandler(g *game.Game, hub *Hub, cfg *config.Config) *GameHandler {
	return &GameHandler{
		game: g,
		hub:  hub,
		cfg:  cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || cfg.OriginAllowed(origin)
			},
		},
	}
}

// WsHandler upgrades GET /ws?id=<session>&encoding=<json|msgpack>. A missing
// id gets a fresh uuid; an id that is already connected is refused.
func (h *GameHandler) WsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sessionID := query.Get("id")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	codec, err := protocol.Lookup(query.Get("encoding"))
	if err != nil {
		utils.HandleError(w, responses.BadRequestError{Msg: err.Error()})
		return
	}

	if err := h.game.AddPlayer(sessionID); err != nil {
		if errors.Is(err, game.ErrSessionExists) {
			utils.HandleError(w, responses.ConflictError{Msg: "Session id already connected."})
			return
		}
		log.Printf("Error adding player %s: %v", sessionID, err)
		utils.HandleError(w, responses.InternalServerError{Msg: "Error creating session."})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		h.game.RemovePlayer(sessionID)
		return
	}

	connection := &Connection{
		ws:        conn,
		send:      make(chan []byte, h.cfg.SendBufferSize),
		sessionID: sessionID,
		codec:     codec,
	}
	if !h.hub.Register(connection) {
		conn.Close()
		h.game.RemovePlayer(sessionID)
		return
	}
	log.Printf("User %s connected (%s)", sessionID, codec.Name())

	go h.writePump(connection)
	h.readPump(connection)

	h.hub.Unregister(connection)
	h.game.RemovePlayer(sessionID)
	log.Printf("User %s disconnected", sessionID)
}

func (h *GameHandler) readPump(c *Connection) {
	defer c.ws.Close()

	c.ws.SetReadLimit(h.cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Error reading message from %s: %v", c.sessionID, err)
			}
			return
		}
		h.processMessage(c, message)
	}
}

// writePump is the only writer on c.ws. It exits when the hub closes c.send.
func (h *GameHandler) writePump(c *Connection) {
	ticker := time.NewTicker(h.cfg.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(c.codec.FrameType(), message); err != nil {
				log.Printf("Error writing message to %s: %v", c.sessionID, err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
