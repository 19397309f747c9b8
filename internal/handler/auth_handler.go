package handler

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/barrybecker4/conquest-engine/internal/auth"
	"github.com/barrybecker4/conquest-engine/internal/repository"
)

// AuthHandler handles the external-identity-provider login flow and
// session token issuance. The provider authenticates the player; this
// handler mints the local session token the rest of the API trusts.
type AuthHandler struct {
	provider *auth.OAuthProvider
	jwtMgr   *auth.JWTManager
	userRepo repository.UserRepository
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(provider *auth.OAuthProvider, jwtMgr *auth.JWTManager, userRepo repository.UserRepository) *AuthHandler {
	return &AuthHandler{provider: provider, jwtMgr: jwtMgr, userRepo: userRepo}
}

// Login redirects to the identity provider's consent screen.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	// In production, store state in a short-lived cookie for CSRF protection.
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// Callback handles the OAuth2 callback from the identity provider.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code parameter")
		return
	}

	identity, err := h.provider.ExchangeAndFetchIdentity(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "oauth exchange failed: "+err.Error())
		return
	}

	user, err := h.userRepo.Upsert(r.Context(), "oauth", identity.Subject, identity.Name, "")
	if err != nil {
		log.Error().Err(err).Msg("failed to upsert player from oauth identity")
		writeError(w, http.StatusInternalServerError, "failed to create player")
		return
	}

	token, err := h.jwtMgr.GenerateAccessToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate session token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "user_id": user.ID})
}

// DevLogin upserts a named test player and returns a session token. Only
// available when DEV_MODE=true, for local play without a real provider.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	if os.Getenv("DEV_MODE") != "true" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "missing name parameter")
		return
	}

	providerID := fmt.Sprintf("dev-%s", name)
	user, err := h.userRepo.Upsert(r.Context(), "dev", providerID, name, "")
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to upsert dev player")
		writeError(w, http.StatusInternalServerError, "failed to create player")
		return
	}

	token, err := h.jwtMgr.GenerateAccessToken(user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate session token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token, "user_id": user.ID})
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
