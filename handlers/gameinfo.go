package handlers

import (
	"net/http"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
	"github.com/mapleleafu/snakearena/snakearena-backend/utils"
)

// StateHandler returns the current board, shaped like the data of a
// state-update message.
func (h *GameHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	utils.HandleSuccess(w, models.SuccessResponse(h.game.Snapshot()))
}

func (h *GameHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	utils.HandleSuccess(w, models.SuccessResponse(h.game.Stats()))
}
