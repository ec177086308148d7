package service

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/store"
	"github.com/ledskov/openwall/models"
)

// userService is the concrete implementation of UserService.
type userService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

// NewUserService constructs a UserService wired to the given UserRepository.
func NewUserService(userRepository store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		logger:         logger,
	}
}

// ListActive returns all active users with password hashes cleared.
func (u *userService) ListActive(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	users, err := u.userRepository.GetAllActiveUsers(ctx)
	if err != nil {
		log.Err(err).Msg("active users listing failed")
		return nil, err
	}

	return sanitizeAll(users), nil
}

// GetByID returns the user with the given identifier.
//
// The identifier arrives as a path segment; a value that is not a valid
// integer is indistinguishable from a missing user and yields
// store.ErrNoUserWasFound rather than a parse error.
func (u *userService) GetByID(ctx context.Context, id string) (models.User, error) {
	log := logger.FromContext(ctx)

	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		log.Error().Str("id", id).Msg("non-numeric user id requested")
		return models.User{}, store.ErrNoUserWasFound
	}

	foundUser, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("user search by id failed")
		return models.User{}, err
	}

	return foundUser.Sanitized(), nil
}

// GetByEmail returns the user with the given email.
func (u *userService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	foundUser, err := u.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, err
	}

	return foundUser.Sanitized(), nil
}

// Search returns active users whose username or display name contains the
// query, case-insensitively. A blank query returns the full active listing.
func (u *userService) Search(ctx context.Context, query string) ([]models.User, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(query) == "" {
		return u.ListActive(ctx)
	}

	users, err := u.userRepository.SearchUsers(ctx, query)
	if err != nil {
		log.Err(err).Str("query", query).Msg("user search failed")
		return nil, err
	}

	return sanitizeAll(users), nil
}

// UpdateProfile applies a partial update to the caller's own profile.
//
// Fields absent from the patch keep their current value. DisplayName and
// Avatar additionally ignore blank-after-trim values so a client cannot wipe
// them by accident; every other field accepts an explicit empty string as a
// deliberate clear.
func (u *userService) UpdateProfile(ctx context.Context, callerEmail string, patch models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	foundUser, err := u.userRepository.FindUserByEmail(ctx, callerEmail)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("user search by email failed")
		return models.User{}, err
	}

	// The limit counts characters, not bytes.
	if patch.Bio != nil && utf8.RuneCountInString(*patch.Bio) > 500 {
		log.Error().Str("email", callerEmail).Int("length", utf8.RuneCountInString(*patch.Bio)).Msg("bio over length limit")
		return models.User{}, ErrValidationBioTooLong
	}

	applyPatch(&foundUser, patch)

	updatedUser, err := u.userRepository.UpdateProfile(ctx, foundUser)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("profile update failed")
		return models.User{}, err
	}

	return updatedUser.Sanitized(), nil
}

// Follow makes the caller follow the target user and returns the target's
// refreshed profile. Following an already-followed user changes nothing.
func (u *userService) Follow(ctx context.Context, callerEmail string, targetEmail string) (models.User, error) {
	return u.changeFollow(ctx, callerEmail, targetEmail, true)
}

// Unfollow removes the caller's follow edge to the target user, tolerating
// its absence, and returns the target's refreshed profile.
func (u *userService) Unfollow(ctx context.Context, callerEmail string, targetEmail string) (models.User, error) {
	return u.changeFollow(ctx, callerEmail, targetEmail, false)
}

func (u *userService) changeFollow(ctx context.Context, callerEmail string, targetEmail string, follow bool) (models.User, error) {
	log := logger.FromContext(ctx)

	follower, err := u.userRepository.FindUserByEmail(ctx, callerEmail)
	if err != nil {
		log.Err(err).Str("email", callerEmail).Msg("follower lookup failed")
		return models.User{}, err
	}

	target, err := u.userRepository.FindUserByEmail(ctx, targetEmail)
	if err != nil {
		log.Err(err).Str("email", targetEmail).Msg("follow target lookup failed")
		return models.User{}, err
	}

	// Skip the write when the edge is already in the requested state; the
	// follower counter must not move on a repeated request.
	if follower.IsFollowing(target.ID) != follow {
		if err := u.userRepository.SaveFollowChange(ctx, follower.ID, target.ID, follow); err != nil {
			log.Err(err).
				Int64("followerID", follower.ID).
				Int64("targetID", target.ID).
				Bool("follow", follow).
				Msg("follow change failed")
			return models.User{}, err
		}

		if follow {
			target.Followers++
		} else if target.Followers > 0 {
			target.Followers--
		}
	}

	return target.Sanitized(), nil
}

func applyPatch(user *models.User, patch models.ProfileUpdate) {
	if patch.DisplayName != nil && strings.TrimSpace(*patch.DisplayName) != "" {
		user.DisplayName = *patch.DisplayName
	}
	if patch.Avatar != nil && strings.TrimSpace(*patch.Avatar) != "" {
		user.Avatar = *patch.Avatar
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Location != nil {
		user.Location = *patch.Location
	}
	if patch.Website != nil {
		user.Website = *patch.Website
	}
	if patch.Profession != nil {
		user.Profession = *patch.Profession
	}
	if patch.BirthDate != nil {
		user.BirthDate = *patch.BirthDate
	}
}

func sanitizeAll(users []models.User) []models.User {
	sanitized := make([]models.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}
	return sanitized
}
