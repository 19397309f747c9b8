package handler

import (
	"errors"
	"net/http"

	"github.com/barrybecker4/conquest-engine/internal/auth"
	"github.com/barrybecker4/conquest-engine/internal/service"
)

// CommandHandler handles the four in-game commands: army moves, temple
// builds, ending a turn, and resigning.
type CommandHandler struct {
	cmdSvc *service.CommandService
}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler(cmdSvc *service.CommandService) *CommandHandler {
	return &CommandHandler{cmdSvc: cmdSvc}
}

// SubmitCommand handles POST /api/v1/games/{id}/commands
func (h *CommandHandler) SubmitCommand(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	userID := auth.UserIDFromContext(r.Context())

	var in service.CommandInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	next, err := h.cmdSvc.Apply(r.Context(), gameID, userID, in)
	if err != nil {
		writeError(w, statusForCommandErr(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func statusForCommandErr(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotInGame), errors.Is(err, service.ErrWrongTurn):
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}
