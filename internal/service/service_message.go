package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/store"
	"github.com/ledskov/openwall/models"
)

// messageService is the concrete implementation of MessageService.
// It needs the UserRepository alongside the MessageRepository: messages are
// addressed by email, so both endpoints of every send are verified against
// existing accounts, and conversation summaries embed full partner profiles.
type messageService struct {
	messageRepository store.MessageRepository
	userRepository    store.UserRepository
	logger            *logger.Logger
}

// NewMessageService constructs a MessageService wired to the given
// repositories.
func NewMessageService(messageRepository store.MessageRepository, userRepository store.UserRepository, logger *logger.Logger) MessageService {
	return &messageService{
		messageRepository: messageRepository,
		userRepository:    userRepository,
		logger:            logger,
	}
}

// Send stores a new direct message from the sender to the addressed recipient.
//
// Both endpoints must resolve to existing accounts. The optional media trio is
// copied onto the stored message verbatim; no decoding or size inspection is
// performed on the payload.
//
// Returns the persisted message, or:
//   - a validation error if the content is empty or over the length limit.
//   - ErrSenderNotFound / ErrRecipientNotFound if either endpoint is unknown.
func (m *messageService) Send(ctx context.Context, senderEmail string, req models.MessageRequest) (models.Message, error) {
	log := logger.FromContext(ctx)

	if req.Content == "" {
		return models.Message{}, ErrValidationContentRequired
	}
	// The limit counts characters, not bytes.
	if utf8.RuneCountInString(req.Content) > 1000 {
		return models.Message{}, ErrValidationContentTooLong
	}

	if _, err := m.userRepository.FindUserByEmail(ctx, senderEmail); err != nil {
		log.Err(err).Str("email", senderEmail).Msg("sender lookup failed")
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Message{}, ErrSenderNotFound
		}
		return models.Message{}, err
	}

	if _, err := m.userRepository.FindUserByEmail(ctx, req.RecipientEmail); err != nil {
		log.Err(err).Str("email", req.RecipientEmail).Msg("recipient lookup failed")
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Message{}, ErrRecipientNotFound
		}
		return models.Message{}, err
	}

	message := models.Message{
		SenderEmail:    senderEmail,
		RecipientEmail: req.RecipientEmail,
		Content:        req.Content,
		MediaData:      req.MediaData,
		MediaType:      req.MediaType,
		MediaFilename:  req.MediaFilename,
	}

	savedMessage, err := m.messageRepository.CreateMessage(ctx, message)
	if err != nil {
		log.Err(err).Str("sender", senderEmail).Str("recipient", req.RecipientEmail).Msg("message creation failed")
		return models.Message{}, err
	}

	return savedMessage, nil
}

// Conversation returns the full exchange between the caller and the partner,
// oldest first. An unknown partner or an empty history both yield an empty
// slice rather than an error.
func (m *messageService) Conversation(ctx context.Context, callerEmail, partnerEmail string) ([]models.Message, error) {
	log := logger.FromContext(ctx)

	messages, err := m.messageRepository.FindConversation(ctx, callerEmail, partnerEmail)
	if err != nil {
		log.Err(err).Str("caller", callerEmail).Str("partner", partnerEmail).Msg("conversation lookup failed")
		return nil, err
	}

	return messages, nil
}

// AllConversations computes the caller's conversation list from their message
// history.
//
// Messages are grouped by the other endpoint; each group contributes one
// summary holding the partner's profile, the newest message of the group and
// the count of unread messages sent by the partner. Summaries are ordered by
// last-message recency, newest conversation first. Partners whose account no
// longer resolves are skipped.
func (m *messageService) AllConversations(ctx context.Context, callerEmail string) ([]models.ConversationSummary, error) {
	log := logger.FromContext(ctx)

	messages, err := m.messageRepository.FindAllUserMessages(ctx, callerEmail)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("message history lookup failed")
		return nil, err
	}

	type group struct {
		lastMessage models.Message
		unreadCount int
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	// The repository returns messages newest first, so the first message
	// seen for a partner is the conversation's latest one and the iteration
	// order already matches the required recency order.
	for _, message := range messages {
		partnerEmail := message.SenderEmail
		if partnerEmail == callerEmail {
			partnerEmail = message.RecipientEmail
		}

		g, ok := groups[partnerEmail]
		if !ok {
			g = &group{lastMessage: message}
			groups[partnerEmail] = g
			order = append(order, partnerEmail)
		}

		if message.RecipientEmail == callerEmail && !message.Read {
			g.unreadCount++
		}
	}

	summaries := make([]models.ConversationSummary, 0, len(order))
	for _, partnerEmail := range order {
		partner, err := m.userRepository.FindUserByEmail(ctx, partnerEmail)
		if err != nil {
			if errors.Is(err, store.ErrNoUserWasFound) {
				log.Warn().Str("partner", partnerEmail).Msg("conversation partner no longer exists, skipping")
				continue
			}
			log.Err(err).Str("partner", partnerEmail).Msg("conversation partner lookup failed")
			return nil, err
		}

		g := groups[partnerEmail]
		summaries = append(summaries, models.ConversationSummary{
			Partner:     partner.Sanitized(),
			LastMessage: g.lastMessage,
			UnreadCount: g.unreadCount,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastMessage.Timestamp.After(summaries[j].LastMessage.Timestamp)
	})

	return summaries, nil
}

// MarkAsRead flips the read flag of a single message. Only the message's
// recipient may do so.
//
// Returns nil on success, or:
//   - store.ErrNoMessageWasFound if the id is non-numeric or matches nothing.
//   - ErrNotMessageRecipient if the caller is not the addressed recipient.
func (m *messageService) MarkAsRead(ctx context.Context, callerEmail string, messageID string) error {
	log := logger.FromContext(ctx)

	id, err := strconv.ParseInt(messageID, 10, 64)
	if err != nil {
		log.Error().Str("id", messageID).Msg("non-numeric message id requested")
		return store.ErrNoMessageWasFound
	}

	message, err := m.messageRepository.FindMessageByID(ctx, id)
	if err != nil {
		log.Err(err).Int64("id", id).Msg("message lookup failed")
		return err
	}

	if message.RecipientEmail != callerEmail {
		log.Error().Int64("id", id).Str("caller", callerEmail).Msg("mark-as-read attempted by non-recipient")
		return ErrNotMessageRecipient
	}

	if err := m.messageRepository.MarkAsRead(ctx, id); err != nil {
		log.Err(err).Int64("id", id).Msg("mark-as-read failed")
		return err
	}

	return nil
}

// Unread returns all unread messages addressed to the caller, newest first.
func (m *messageService) Unread(ctx context.Context, callerEmail string) ([]models.Message, error) {
	log := logger.FromContext(ctx)

	messages, err := m.messageRepository.FindUnreadMessages(ctx, callerEmail)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("unread messages lookup failed")
		return nil, err
	}

	return messages, nil
}
