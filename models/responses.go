package models

// AuthResponse is returned by the login and signup endpoints: the issued
// bearer token alongside the sanitized user record.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ConversationSummary describes one computed conversation of a user:
// the partner, the newest message exchanged with them, and how many
// messages from the partner are still unread.
type ConversationSummary struct {
	Partner     User    `json:"partner"`
	LastMessage Message `json:"lastMessage"`
	UnreadCount int     `json:"unreadCount"`
}

// ConversationsResponse is the aggregate returned by
// GET /api/messages/conversations, ordered by last message recency.
type ConversationsResponse struct {
	Conversations []ConversationSummary `json:"conversations"`
}

// ErrorResponse is the uniform error body: a single human-readable message.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SuccessResponse acknowledges a state change with no payload to return.
type SuccessResponse struct {
	Success bool `json:"success"`
}
