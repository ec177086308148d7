package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	users, err := h.services.UserService.ListActive(ctx)
	if err != nil {
		log.Err(err).Msg("active users listing failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	query := r.URL.Query().Get("query")
	users, err := h.services.UserService.Search(ctx, query)
	if err != nil {
		log.Err(err).Str("query", query).Msg("user search failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, users, http.StatusOK)
}

func (h *Handler) userByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id := chi.URLParam(r, "userID")
	user, err := h.services.UserService.GetByID(ctx, id)
	if err != nil {
		log.Err(err).Str("id", id).Msg("user lookup by id failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) userByEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	email := chi.URLParam(r, "email")
	user, err := h.services.UserService.GetByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user lookup by email failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	var patch models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	user, err := h.services.UserService.UpdateProfile(ctx, callerEmail, patch)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("profile update failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) follow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, true)
}

func (h *Handler) unfollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, false)
}

func (h *Handler) changeFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	targetEmail := chi.URLParam(r, "email")

	var (
		target models.User
		err    error
	)
	if follow {
		target, err = h.services.UserService.Follow(ctx, callerEmail, targetEmail)
	} else {
		target, err = h.services.UserService.Unfollow(ctx, callerEmail, targetEmail)
	}
	if err != nil {
		log.Err(err).
			Str("caller", callerEmail).
			Str("target", targetEmail).
			Bool("follow", follow).
			Msg("follow change failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, target, http.StatusOK)
}
