package service

import (
	"context"

	"github.com/ledskov/openwall/models"
)

// AuthService handles registration, credential checks and token lifecycle.
type AuthService interface {
	// Register validates signup data, stores a new user with hashed password
	// and returns a signed token together with the sanitized user.
	Register(ctx context.Context, signup models.SignupRequest) (models.Token, models.User, error)
	// Login verifies credentials and returns a signed token and the user.
	Login(ctx context.Context, login models.LoginRequest) (models.Token, models.User, error)
	// CurrentUser resolves the user behind a raw Authorization header value.
	CurrentUser(ctx context.Context, authHeader string) (models.User, error)
	// CreateToken issues a signed token whose subject is the given email.
	CreateToken(ctx context.Context, email string) (models.Token, error)
	// ParseToken validates a compact token string and returns the parsed token.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// UserService covers profile reads and updates plus the follower graph.
type UserService interface {
	ListActive(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Search(ctx context.Context, query string) ([]models.User, error)
	// UpdateProfile applies a partial update to the caller's own profile.
	UpdateProfile(ctx context.Context, callerEmail string, patch models.ProfileUpdate) (models.User, error)
	// Follow makes the caller follow the target and returns the target's
	// refreshed profile. Following an already-followed user is a no-op.
	Follow(ctx context.Context, callerEmail string, targetEmail string) (models.User, error)
	// Unfollow removes the follow edge, tolerating its absence.
	Unfollow(ctx context.Context, callerEmail string, targetEmail string) (models.User, error)
}

// MessageService covers direct messages and conversation views.
type MessageService interface {
	Send(ctx context.Context, senderEmail string, req models.MessageRequest) (models.Message, error)
	Conversation(ctx context.Context, callerEmail, partnerEmail string) ([]models.Message, error)
	AllConversations(ctx context.Context, callerEmail string) ([]models.ConversationSummary, error)
	MarkAsRead(ctx context.Context, callerEmail string, messageID string) error
	Unread(ctx context.Context, callerEmail string) ([]models.Message, error)
}
