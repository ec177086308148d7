package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/ledskov/openwall/internal/config"
	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/store"
	"github.com/ledskov/openwall/internal/utils"
	"github.com/ledskov/openwall/models"
)

// Defaults applied to freshly registered accounts.
const (
	defaultAvatar = "https://images.pexels.com/photos/220453/pexels-photo-220453.jpeg?auto=compress&cs=tinysrgb&w=150"
	defaultBio    = "New member of this community"
)

// authService is the concrete implementation of AuthService.
// It handles registration, credential verification and the JWT token
// lifecycle, using a UserRepository for persistence and bcrypt for password
// hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given UserRepository
// and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, cfg config.Auth, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// Register creates a new user account.
//
// It validates the signup data, hashes the password with bcrypt, fills in
// the default avatar and bio for fields the client left empty, and delegates
// persistence to the UserRepository.
//
// Returns a signed token plus the sanitized user, or:
//   - a validation error if any field is missing or malformed.
//   - store.ErrUsernameAlreadyExists / store.ErrEmailAlreadyExists if the
//     account collides with an existing one.
func (a *authService) Register(ctx context.Context, signup models.SignupRequest) (models.Token, models.User, error) {
	log := logger.FromContext(ctx)

	if err := validateSignup(signup); err != nil {
		log.Error().Str("username", signup.Username).Str("email", signup.Email).Msg("invalid signup data provided")
		return models.Token{}, models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Msg("password hashing failed")
		return models.Token{}, models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Username:    signup.Username,
		DisplayName: signup.DisplayName,
		Email:       signup.Email,
		Password:    string(hash),
		Avatar:      defaultAvatar,
		Bio:         defaultBio,
		Active:      true,
	}

	createdUser, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("username", user.Username).Str("email", user.Email).Msg("user creation ended with error")
		return models.Token{}, models.User{}, err
	}

	token, err := a.CreateToken(ctx, createdUser.Email)
	if err != nil {
		log.Err(err).Str("email", createdUser.Email).Msg("token creation after signup failed")
		return models.Token{}, models.User{}, err
	}

	return token, createdUser.Sanitized(), nil
}

// Login authenticates an existing user.
//
// It looks up the account by email, rejects deactivated accounts and compares
// the supplied password against the stored bcrypt hash.
//
// Returns a signed token plus the sanitized user, or:
//   - store.ErrNoUserWasFound if no account matches the email.
//   - ErrAccountDeactivated if the account has been deactivated.
//   - ErrWrongPassword if the password does not match.
func (a *authService) Login(ctx context.Context, login models.LoginRequest) (models.Token, models.User, error) {
	log := logger.FromContext(ctx)

	foundUser, err := a.userRepository.FindUserByEmail(ctx, login.Email)
	if err != nil {
		log.Err(err).Str("email", login.Email).Msg("user search by email failed")
		return models.Token{}, models.User{}, err
	}

	if !foundUser.Active {
		log.Error().Int64("id", foundUser.ID).Str("email", foundUser.Email).Msg("deactivated account login attempt")
		return models.Token{}, models.User{}, ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(foundUser.Password), []byte(login.Password)); err != nil {
		log.Error().Int64("id", foundUser.ID).Str("email", foundUser.Email).Msg("wrong password")
		return models.Token{}, models.User{}, ErrWrongPassword
	}

	token, err := a.CreateToken(ctx, foundUser.Email)
	if err != nil {
		log.Err(err).Str("email", foundUser.Email).Msg("token creation after login failed")
		return models.Token{}, models.User{}, err
	}

	return token, foundUser.Sanitized(), nil
}

// CurrentUser resolves the account behind a raw Authorization header value.
//
// The "Bearer " prefix is stripped if present, the remaining token is parsed
// and validated, and the user named by the token's subject is loaded.
//
// Returns the sanitized user record or:
//   - ErrTokenIsExpiredOrInvalid if the token fails validation.
//   - ErrTokenWithoutEmail if the token carries no subject.
//   - store.ErrNoUserWasFound if the subject no longer matches an account.
//   - ErrAccountDeactivated if the account has been deactivated.
func (a *authService) CurrentUser(ctx context.Context, authHeader string) (models.User, error) {
	log := logger.FromContext(ctx)

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	token, err := a.ParseToken(ctx, tokenString)
	if err != nil {
		log.Err(err).Msg("token validation failed")
		return models.User{}, err
	}

	email, err := token.GetEmail()
	if err != nil {
		log.Err(err).Msg("token carries no subject email")
		return models.User{}, ErrTokenWithoutEmail
	}

	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by token subject failed")
		return models.User{}, err
	}

	if !foundUser.Active {
		log.Error().Int64("id", foundUser.ID).Str("email", foundUser.Email).Msg("deactivated account access attempt")
		return models.User{}, ErrAccountDeactivated
	}

	return foundUser.Sanitized(), nil
}

// CreateToken issues a signed JWT whose subject is the given email.
//
// The token is signed with the configured tokenSignKey, carries the configured
// tokenIssuer as the "iss" claim, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, email string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, email, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string.
//
// It delegates to utils.ValidateAndParseJWTToken, verifying the signature and
// the issuer claim. Any validation failure (expired, wrong issuer, malformed)
// is normalised to ErrTokenIsExpiredOrInvalid so that callers do not need to
// inspect low-level JWT errors.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func validateSignup(signup models.SignupRequest) error {
	switch {
	case signup.Username == "":
		return ErrValidationUsernameRequired
	case utf8.RuneCountInString(signup.Username) < 3 || utf8.RuneCountInString(signup.Username) > 20:
		return ErrValidationUsernameLength
	case signup.DisplayName == "":
		return ErrValidationDisplayNameRequired
	case signup.Email == "":
		return ErrValidationEmailRequired
	case signup.Password == "":
		return ErrValidationPasswordRequired
	case utf8.RuneCountInString(signup.Password) < 6:
		return ErrValidationPasswordTooShort
	}

	if _, err := mail.ParseAddress(signup.Email); err != nil {
		return ErrValidationEmailInvalid
	}

	return nil
}
