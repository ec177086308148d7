package http

import (
	"encoding/json"
	"net/http"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var signup models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&signup); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	token, user, err := h.services.AuthService.Register(ctx, signup)
	if err != nil {
		log.Err(err).Str("username", signup.Username).Msg("user registration failed")
		writeError(w, err)
		return
	}

	log.Debug().Int64("id", user.ID).Str("username", user.Username).Msg("user registered")

	utils.WriteJSON(w, models.AuthResponse{Token: token.SignedString, User: user}, http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var login models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&login); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	token, user, err := h.services.AuthService.Login(ctx, login)
	if err != nil {
		log.Err(err).Str("email", login.Email).Msg("user login failed")
		writeError(w, err)
		return
	}

	log.Debug().Int64("id", user.ID).Str("email", user.Email).Msg("user logged in")

	utils.WriteJSON(w, models.AuthResponse{Token: token.SignedString, User: user}, http.StatusOK)
}

// me resolves the caller from the raw Authorization header rather than the
// context email so that token problems surface with their own messages.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, err := h.services.AuthService.CurrentUser(ctx, r.Header.Get("Authorization"))
	if err != nil {
		log.Err(err).Msg("current user resolution failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
