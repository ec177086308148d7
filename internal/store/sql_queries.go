package store

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// psql is the shared squirrel statement builder configured for PostgreSQL
// ($N placeholders). All dynamic queries in this package go through it.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// userColumns is the canonical column list of the users table, in the order
// every user-scanning helper expects.
var userColumns = []string{
	"id",
	"username",
	"display_name",
	"email",
	"password",
	"avatar",
	"bio",
	"location",
	"website",
	"birth_date",
	"profession",
	"followers",
	"join_date",
	"last_modified",
	"active",
}

// messageColumns is the canonical column list of the messages table.
var messageColumns = []string{
	"id",
	"sender_email",
	"recipient_email",
	"content",
	"timestamp",
	"is_read",
	"deleted",
	"media_data",
	"media_type",
	"media_filename",
}

const (
	createUser = `INSERT INTO users (username, display_name, email, password, avatar, bio, join_date, last_modified)
    VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
    RETURNING id, username, display_name, email, password, avatar, bio, location, website, birth_date, profession, followers, join_date, last_modified, active;`

	findUserByEmail = `SELECT id, username, display_name, email, password, avatar, bio, location, website, birth_date, profession, followers, join_date, last_modified, active
    FROM users
    WHERE email = $1;`

	findUserByID = `SELECT id, username, display_name, email, password, avatar, bio, location, website, birth_date, profession, followers, join_date, last_modified, active
    FROM users
    WHERE id = $1;`

	findFollowingIDs = `SELECT following_user_id
    FROM user_following
    WHERE user_id = $1
    ORDER BY following_user_id;`

	insertFollowEdge = `INSERT INTO user_following (user_id, following_user_id)
    VALUES ($1, $2)
    ON CONFLICT DO NOTHING;`

	deleteFollowEdge = `DELETE FROM user_following
    WHERE user_id = $1 AND following_user_id = $2;`

	incrementFollowers = `UPDATE users SET followers = followers + 1 WHERE id = $1;`

	decrementFollowers = `UPDATE users SET followers = GREATEST(followers - 1, 0) WHERE id = $1;`

	createMessage = `INSERT INTO messages (sender_email, recipient_email, content, timestamp, is_read, deleted, media_data, media_type, media_filename)
    VALUES ($1, $2, $3, NOW(), FALSE, FALSE, $4, $5, $6)
    RETURNING id, sender_email, recipient_email, content, timestamp, is_read, deleted, media_data, media_type, media_filename;`

	findMessageByID = `SELECT id, sender_email, recipient_email, content, timestamp, is_read, deleted, media_data, media_type, media_filename
    FROM messages
    WHERE id = $1 AND deleted = FALSE;`

	markMessageAsRead = `UPDATE messages SET is_read = TRUE WHERE id = $1 AND deleted = FALSE;`
)

// buildActiveUsersQuery selects every active user, oldest account first.
func buildActiveUsersQuery() (string, []any, error) {
	return psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"active": true}).
		OrderBy("id").
		ToSql()
}

// buildSearchUsersQuery selects active users whose username or display name
// contains query, case-insensitively.
func buildSearchUsersQuery(query string) (string, []any, error) {
	pattern := "%" + query + "%"

	return psql.Select(userColumns...).
		From("users").
		Where(sq.And{
			sq.Eq{"active": true},
			sq.Or{
				sq.ILike{"username": pattern},
				sq.ILike{"display_name": pattern},
			},
		}).
		OrderBy("id").
		ToSql()
}

// buildUpdateProfileQuery writes the mutable profile columns of user and
// bumps last_modified. Identity columns (username, email, password) and the
// graph state are deliberately absent from the SET list.
func buildUpdateProfileQuery(userID int64, displayName, bio, location, website, avatar, profession, birthDate string) (string, []any, error) {
	return psql.Update("users").
		Set("display_name", displayName).
		Set("bio", bio).
		Set("location", location).
		Set("website", website).
		Set("avatar", avatar).
		Set("profession", profession).
		Set("birth_date", birthDate).
		Set("last_modified", sq.Expr("NOW()")).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
}

// buildConversationQuery selects all non-deleted messages exchanged between
// the two emails in either direction, oldest first. The id column is the
// stable tie-break for equal timestamps.
func buildConversationQuery(emailA, emailB string) (string, []any, error) {
	return psql.Select(messageColumns...).
		From("messages").
		Where(sq.And{
			sq.Eq{"deleted": false},
			sq.Or{
				sq.And{sq.Eq{"sender_email": emailA}, sq.Eq{"recipient_email": emailB}},
				sq.And{sq.Eq{"sender_email": emailB}, sq.Eq{"recipient_email": emailA}},
			},
		}).
		OrderBy("timestamp ASC", "id ASC").
		ToSql()
}

// buildUserMessagesQuery selects all non-deleted messages where email is
// either role, newest first.
func buildUserMessagesQuery(email string) (string, []any, error) {
	return psql.Select(messageColumns...).
		From("messages").
		Where(sq.And{
			sq.Eq{"deleted": false},
			sq.Or{
				sq.Eq{"sender_email": email},
				sq.Eq{"recipient_email": email},
			},
		}).
		OrderBy("timestamp DESC", "id DESC").
		ToSql()
}

// buildUnreadMessagesQuery selects all non-deleted unread messages addressed
// to email, newest first.
func buildUnreadMessagesQuery(email string) (string, []any, error) {
	return psql.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{
			"recipient_email": email,
			"is_read":         false,
			"deleted":         false,
		}).
		OrderBy("timestamp DESC", "id DESC").
		ToSql()
}
