package store

import (
	"context"

	"github.com/ledskov/openwall/models"
)

// UserRepository is the data-access contract for user accounts and the
// follower graph.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	GetAllActiveUsers(ctx context.Context) ([]models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)

	// UpdateProfile persists the mutable profile columns of user and bumps
	// last_modified. Identity and graph state are not written by this call.
	UpdateProfile(ctx context.Context, user models.User) (models.User, error)

	// SaveFollowChange records follower → followee edge creation (follow=true)
	// or removal (follow=false) and adjusts the followee's follower counter.
	// Both writes happen inside a single database transaction.
	SaveFollowChange(ctx context.Context, followerID, followeeID int64, follow bool) error
}

// MessageRepository is the data-access contract for direct messages.
// All read methods filter out soft-deleted rows.
type MessageRepository interface {
	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
	FindMessageByID(ctx context.Context, id int64) (models.Message, error)
	FindConversation(ctx context.Context, emailA, emailB string) ([]models.Message, error)
	FindAllUserMessages(ctx context.Context, email string) ([]models.Message, error)
	FindUnreadMessages(ctx context.Context, email string) ([]models.Message, error)
	MarkAsRead(ctx context.Context, id int64) error
}
