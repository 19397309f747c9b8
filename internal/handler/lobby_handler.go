package handler

import (
	"errors"
	"net/http"

	"github.com/barrybecker4/conquest-engine/internal/auth"
	"github.com/barrybecker4/conquest-engine/internal/service"
)

// LobbyHandler handles game creation, joining, and lifecycle endpoints.
type LobbyHandler struct {
	gameSvc *service.GameService
	turnSeconds int
	hub     *Hub
}

// NewLobbyHandler creates a LobbyHandler.
func NewLobbyHandler(gameSvc *service.GameService, turnSeconds int, hub *Hub) *LobbyHandler {
	return &LobbyHandler{gameSvc: gameSvc, turnSeconds: turnSeconds, hub: hub}
}

// CreateGame handles POST /api/v1/games
func (h *LobbyHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		Name     string `json:"name"`
		MaxTurns int    `json:"max_turns"`
		BotOnly  bool   `json:"bot_only"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.gameSvc.CreateGame(r.Context(), req.Name, userID, req.MaxTurns, h.turnSeconds, req.BotOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

// ListGames handles GET /api/v1/games
func (h *LobbyHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameSvc.ListOpenGames(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// GetGame handles GET /api/v1/games/{id}
func (h *LobbyHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	game, err := h.gameSvc.GetGame(r.Context(), gameID)
	if err != nil {
		writeError(w, statusForLobbyErr(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

// JoinGame handles POST /api/v1/games/{id}/join
func (h *LobbyHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.gameSvc.JoinGame(r.Context(), gameID, userID); err != nil {
		writeError(w, statusForLobbyErr(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// StartGame handles POST /api/v1/games/{id}/start
func (h *LobbyHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var req struct {
		BackfillBots bool `json:"backfill_bots"`
	}
	_ = decodeJSON(r, &req) // body is optional

	if req.BackfillBots {
		if err := h.gameSvc.BackfillBots(r.Context(), gameID); err != nil {
			writeError(w, statusForLobbyErr(err), err.Error())
			return
		}
	}

	game, err := h.gameSvc.StartGame(r.Context(), gameID, userID, h.turnSeconds)
	if err != nil {
		writeError(w, statusForLobbyErr(err), err.Error())
		return
	}

	h.hub.BroadcastToGame(gameID, WSEvent{Type: EventGameStarted, GameID: gameID, Data: game})
	writeJSON(w, http.StatusOK, game)
}

// StopGame handles POST /api/v1/games/{id}/stop
func (h *LobbyHandler) StopGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	game, err := h.gameSvc.StopGame(r.Context(), gameID, userID)
	if err != nil {
		writeError(w, statusForLobbyErr(err), err.Error())
		return
	}

	h.hub.BroadcastToGame(gameID, WSEvent{Type: EventGameEnded, GameID: gameID, Data: game})
	writeJSON(w, http.StatusOK, game)
}

// DeleteGame handles DELETE /api/v1/games/{id}
func (h *LobbyHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	if err := h.gameSvc.DeleteGame(r.Context(), gameID, userID); err != nil {
		writeError(w, statusForLobbyErr(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func statusForLobbyErr(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGameFull), errors.Is(err, service.ErrGameNotWaiting),
		errors.Is(err, service.ErrAlreadyJoined), errors.Is(err, service.ErrGameNotActive),
		errors.Is(err, service.ErrNotEnoughSeats):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotCreator):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
