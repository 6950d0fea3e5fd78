package handlers

import (
	"log"

	"github.com/mapleleafu/snakearena/snakearena-backend/protocol"
)

// processMessage applies one inbound frame to the game. Frames that do not
// decode are logged and dropped; the connection stays open.
func (h *GameHandler) processMessage(c *Connection, rawMessage []byte) {
	cmd, err := protocol.Decode(c.codec, rawMessage)
	if err != nil {
		log.Printf("Discarding message from %s: %v", c.sessionID, err)
		return
	}

	switch cmd := cmd.(type) {
	case protocol.Join:
		if err := h.game.Join(c.sessionID, cmd.Username); err != nil {
			log.Printf("Join from %s ignored: %v", c.sessionID, err)
		}
	case protocol.Leave:
		h.game.Leave(c.sessionID)
	case protocol.Move:
		h.game.SetDirection(c.sessionID, cmd.Direction)
	default:
		log.Printf("Unhandled command %T from %s", cmd, c.sessionID)
	}
}
