package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/models"
)

// messageRepository is the PostgreSQL-backed implementation of
// [MessageRepository]. It executes all direct-message operations against the
// "messages" table. Soft-deleted rows are filtered in every query.
type messageRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewMessageRepository constructs a [MessageRepository] backed by the
// provided database connection and logger.
func NewMessageRepository(db *DB, logger *logger.Logger) MessageRepository {
	logger.Debug().Msg("creating message repository")
	return &messageRepository{
		db:     db,
		logger: logger,
	}
}

// scanMessage reads one messages-table row in [messageColumns] order.
func scanMessage(row rowScanner) (models.Message, error) {
	var m models.Message
	err := row.Scan(
		&m.ID,
		&m.SenderEmail,
		&m.RecipientEmail,
		&m.Content,
		&m.Timestamp,
		&m.Read,
		&m.Deleted,
		&m.MediaData,
		&m.MediaType,
		&m.MediaFilename,
	)
	return m, err
}

// CreateMessage persists a new message and returns it with server-assigned
// fields (ID, Timestamp). The read and deleted flags start false.
func (r *messageRepository) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createMessage,
		message.SenderEmail, message.RecipientEmail, message.Content,
		message.MediaData, message.MediaType, message.MediaFilename)

	created, err := scanMessage(row)
	if err != nil {
		log.Err(err).
			Str("func", "*messageRepository.CreateMessage").
			Str("sender", message.SenderEmail).
			Str("recipient", message.RecipientEmail).
			Bool("retryable", r.db.isRetryable(err)).
			Msg("message creation failed")

		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, ErrMessageNotSaved
		}

		return models.Message{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindMessageByID retrieves a single non-deleted message by id.
//
// Returns [ErrNoMessageWasFound] when no row matches.
func (r *messageRepository) FindMessageByID(ctx context.Context, id int64) (models.Message, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findMessageByID, id)

	message, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Message{}, ErrNoMessageWasFound
		}

		log.Err(err).
			Str("func", "*messageRepository.FindMessageByID").
			Int64("message_id", id).
			Bool("retryable", r.db.isRetryable(err)).
			Msg("message lookup failed")
		return models.Message{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return message, nil
}

// FindConversation returns all non-deleted messages exchanged between the
// two emails in either direction, oldest first (id breaks timestamp ties).
func (r *messageRepository) FindConversation(ctx context.Context, emailA, emailB string) ([]models.Message, error) {
	query, args, err := buildConversationQuery(emailA, emailB)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryMessages(ctx, query, args...)
}

// FindAllUserMessages returns all non-deleted messages where email is either
// the sender or the recipient, newest first.
func (r *messageRepository) FindAllUserMessages(ctx context.Context, email string) ([]models.Message, error) {
	query, args, err := buildUserMessagesQuery(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryMessages(ctx, query, args...)
}

// FindUnreadMessages returns all non-deleted unread messages addressed to
// email, newest first.
func (r *messageRepository) FindUnreadMessages(ctx context.Context, email string) ([]models.Message, error) {
	query, args, err := buildUnreadMessagesQuery(email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryMessages(ctx, query, args...)
}

func (r *messageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*messageRepository.queryMessages").
			Bool("retryable", r.db.isRetryable(err)).
			Msg("failed to execute messages query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0, 32)
	for rows.Next() {
		message, scanErr := scanMessage(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*messageRepository.queryMessages").Msg("failed to scan message row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		messages = append(messages, message)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*messageRepository.queryMessages").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return messages, nil
}

// MarkAsRead flips the read flag of the message with the given id.
//
// Returns [ErrNoMessageWasFound] when no non-deleted row matches.
func (r *messageRepository) MarkAsRead(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	res, err := r.db.ExecContext(ctx, markMessageAsRead, id)
	if err != nil {
		log.Err(err).
			Str("func", "*messageRepository.MarkAsRead").
			Int64("message_id", id).
			Bool("retryable", r.db.isRetryable(err)).
			Msg("failed to mark message as read")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoMessageWasFound
	}

	return nil
}
