package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	var req models.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSON(w, models.ErrorResponse{Message: "Invalid JSON was passed"}, http.StatusBadRequest)
		return
	}

	message, err := h.services.MessageService.Send(ctx, callerEmail, req)
	if err != nil {
		log.Err(err).Str("sender", callerEmail).Str("recipient", req.RecipientEmail).Msg("sending message failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, message, http.StatusOK)
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	partnerEmail := chi.URLParam(r, "email")
	messages, err := h.services.MessageService.Conversation(ctx, callerEmail, partnerEmail)
	if err != nil {
		log.Err(err).Str("caller", callerEmail).Str("partner", partnerEmail).Msg("conversation lookup failed")
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	utils.WriteJSON(w, messages, http.StatusOK)
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	summaries, err := h.services.MessageService.AllConversations(ctx, callerEmail)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("conversations aggregation failed")
		writeError(w, err)
		return
	}
	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}

	utils.WriteJSON(w, models.ConversationsResponse{Conversations: summaries}, http.StatusOK)
}

func (h *Handler) unreadMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	messages, err := h.services.MessageService.Unread(ctx, callerEmail)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("unread messages lookup failed")
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	utils.WriteJSON(w, messages, http.StatusOK)
}

func (h *Handler) markMessageRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	callerEmail, ok := utils.GetUserEmailFromContext(ctx)
	if !ok {
		log.Error().Msg("no authenticated email in request context")
		writeError(w, ErrEmptyToken)
		return
	}

	messageID := chi.URLParam(r, "messageID")
	if err := h.services.MessageService.MarkAsRead(ctx, callerEmail, messageID); err != nil {
		log.Err(err).Str("id", messageID).Str("caller", callerEmail).Msg("mark-as-read failed")
		writeError(w, err)
		return
	}

	utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}
