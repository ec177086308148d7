package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/service"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

// ─────────────────────────────────────────────
// Mock service.AuthService
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn    func(ctx context.Context, signup models.SignupRequest) (models.Token, models.User, error)
	loginFn       func(ctx context.Context, login models.LoginRequest) (models.Token, models.User, error)
	currentUserFn func(ctx context.Context, authHeader string) (models.User, error)
	createTokenFn func(ctx context.Context, email string) (models.Token, error)
	parseTokenFn  func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) Register(ctx context.Context, signup models.SignupRequest) (models.Token, models.User, error) {
	return m.registerFn(ctx, signup)
}

func (m *mockAuthService) Login(ctx context.Context, login models.LoginRequest) (models.Token, models.User, error) {
	return m.loginFn(ctx, login)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, authHeader string) (models.User, error) {
	return m.currentUserFn(ctx, authHeader)
}

func (m *mockAuthService) CreateToken(ctx context.Context, email string) (models.Token, error) {
	return m.createTokenFn(ctx, email)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

// ─────────────────────────────────────────────
// Mock service.UserService
// ─────────────────────────────────────────────

type mockUserService struct {
	listActiveFn    func(ctx context.Context) ([]models.User, error)
	getByIDFn       func(ctx context.Context, id string) (models.User, error)
	getByEmailFn    func(ctx context.Context, email string) (models.User, error)
	searchFn        func(ctx context.Context, query string) ([]models.User, error)
	updateProfileFn func(ctx context.Context, callerEmail string, patch models.ProfileUpdate) (models.User, error)
	followFn        func(ctx context.Context, callerEmail, targetEmail string) (models.User, error)
	unfollowFn      func(ctx context.Context, callerEmail, targetEmail string) (models.User, error)
}

func (m *mockUserService) ListActive(ctx context.Context) ([]models.User, error) {
	return m.listActiveFn(ctx)
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (models.User, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return m.getByEmailFn(ctx, email)
}

func (m *mockUserService) Search(ctx context.Context, query string) ([]models.User, error) {
	return m.searchFn(ctx, query)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, callerEmail string, patch models.ProfileUpdate) (models.User, error) {
	return m.updateProfileFn(ctx, callerEmail, patch)
}

func (m *mockUserService) Follow(ctx context.Context, callerEmail, targetEmail string) (models.User, error) {
	return m.followFn(ctx, callerEmail, targetEmail)
}

func (m *mockUserService) Unfollow(ctx context.Context, callerEmail, targetEmail string) (models.User, error) {
	return m.unfollowFn(ctx, callerEmail, targetEmail)
}

// ─────────────────────────────────────────────
// Mock service.MessageService
// ─────────────────────────────────────────────

type mockMessageService struct {
	sendFn             func(ctx context.Context, senderEmail string, req models.MessageRequest) (models.Message, error)
	conversationFn     func(ctx context.Context, callerEmail, partnerEmail string) ([]models.Message, error)
	allConversationsFn func(ctx context.Context, callerEmail string) ([]models.ConversationSummary, error)
	markAsReadFn       func(ctx context.Context, callerEmail, messageID string) error
	unreadFn           func(ctx context.Context, callerEmail string) ([]models.Message, error)
}

func (m *mockMessageService) Send(ctx context.Context, senderEmail string, req models.MessageRequest) (models.Message, error) {
	return m.sendFn(ctx, senderEmail, req)
}

func (m *mockMessageService) Conversation(ctx context.Context, callerEmail, partnerEmail string) ([]models.Message, error) {
	return m.conversationFn(ctx, callerEmail, partnerEmail)
}

func (m *mockMessageService) AllConversations(ctx context.Context, callerEmail string) ([]models.ConversationSummary, error) {
	return m.allConversationsFn(ctx, callerEmail)
}

func (m *mockMessageService) MarkAsRead(ctx context.Context, callerEmail, messageID string) error {
	return m.markAsReadFn(ctx, callerEmail, messageID)
}

func (m *mockMessageService) Unread(ctx context.Context, callerEmail string) ([]models.Message, error) {
	return m.unreadFn(ctx, callerEmail)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func newTestHandler(t *testing.T, svcs service.Services) *Handler {
	t.Helper()
	return NewHandler(&svcs, logger.Nop())
}

// jsonBody serialises v to a JSON request body string.
func jsonBody(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// authedContext returns a context carrying the given email the way the auth
// middleware stores it.
func authedContext(email string) context.Context {
	return context.WithValue(context.Background(), utils.UserEmailCtxKey, email)
}

// decodeErrorBody parses the uniform {"message": "..."} error payload.
func decodeErrorBody(t *testing.T, body []byte) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Message
}
