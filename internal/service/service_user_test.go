package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/internal/store"
	"github.com/ledskov/openwall/models"
)

func newTestUserService(repo *mockUserRepository) UserService {
	return NewUserService(repo, logger.Nop())
}

func strPtr(s string) *string { return &s }

// ─────────────────────────────────────────────
// ListActive / GetByID / GetByEmail / Search
// ─────────────────────────────────────────────

func TestUserService_ListActive_SanitizesPasswords(t *testing.T) {
	repo := &mockUserRepository{
		getAllActiveUsersFn: func(_ context.Context) ([]models.User, error) {
			return []models.User{
				{ID: 1, Username: "alice", Password: "hash-a"},
				{ID: 2, Username: "bob", Password: "hash-b"},
			}, nil
		},
	}
	svc := newTestUserService(repo)

	users, err := svc.ListActive(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Empty(t, user.Password)
	}
}

func TestUserService_ListActive_RepositoryError(t *testing.T) {
	repo := &mockUserRepository{
		getAllActiveUsersFn: func(_ context.Context) ([]models.User, error) {
			return nil, errRepository
		},
	}
	svc := newTestUserService(repo)

	_, err := svc.ListActive(context.Background())

	require.ErrorIs(t, err, errRepository)
}

func TestUserService_GetByID_Success(t *testing.T) {
	repo := &mockUserRepository{
		findUserByIDFn: func(_ context.Context, id int64) (models.User, error) {
			assert.Equal(t, int64(42), id)
			return models.User{ID: 42, Username: "alice", Password: "hash"}, nil
		},
	}
	svc := newTestUserService(repo)

	user, err := svc.GetByID(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Empty(t, user.Password)
}

func TestUserService_GetByID_NonNumericID(t *testing.T) {
	called := false
	repo := &mockUserRepository{
		findUserByIDFn: func(_ context.Context, _ int64) (models.User, error) {
			called = true
			return models.User{}, nil
		},
	}
	svc := newTestUserService(repo)

	_, err := svc.GetByID(context.Background(), "abc")

	require.ErrorIs(t, err, store.ErrNoUserWasFound)
	assert.False(t, called, "repository must not be queried for a non-numeric id")
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc := newTestUserService(&mockUserRepository{})

	_, err := svc.GetByID(context.Background(), "404")

	require.ErrorIs(t, err, store.ErrNoUserWasFound)
}

func TestUserService_Search_BlankQueryReturnsAllActive(t *testing.T) {
	searched := false
	repo := &mockUserRepository{
		getAllActiveUsersFn: func(_ context.Context) ([]models.User, error) {
			return []models.User{{ID: 1, Username: "alice"}}, nil
		},
		searchUsersFn: func(_ context.Context, _ string) ([]models.User, error) {
			searched = true
			return nil, nil
		},
	}
	svc := newTestUserService(repo)

	users, err := svc.Search(context.Background(), "   ")

	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.False(t, searched)
}

func TestUserService_Search_DelegatesQuery(t *testing.T) {
	repo := &mockUserRepository{
		searchUsersFn: func(_ context.Context, query string) ([]models.User, error) {
			assert.Equal(t, "ali", query)
			return []models.User{{ID: 1, Username: "alice", Password: "hash"}}, nil
		},
	}
	svc := newTestUserService(repo)

	users, err := svc.Search(context.Background(), "ali")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}

// ─────────────────────────────────────────────
// UpdateProfile
// ─────────────────────────────────────────────

func TestUserService_UpdateProfile_PatchSemantics(t *testing.T) {
	current := models.User{
		ID:          1,
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Bio:         "old bio",
		Location:    "Berlin",
		Website:     "https://alice.example",
		Avatar:      "https://old.avatar",
	}

	var written models.User
	repo := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			return current, nil
		},
		updateProfileFn: func(_ context.Context, user models.User) (models.User, error) {
			written = user
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), "alice@example.com", models.ProfileUpdate{
		DisplayName: strPtr("   "),      // blank: ignored
		Avatar:      nil,                // absent: unchanged
		Bio:         strPtr(""),         // empty: deliberate clear
		Location:    strPtr("Hamburg"),  // overwrite
	})

	require.NoError(t, err)
	assert.Equal(t, "Alice", written.DisplayName, "blank display name must be ignored")
	assert.Equal(t, "https://old.avatar", written.Avatar, "absent avatar must be unchanged")
	assert.Empty(t, written.Bio, "empty bio must clear the field")
	assert.Equal(t, "Hamburg", written.Location)
	assert.Equal(t, "https://alice.example", written.Website, "absent website must be unchanged")
}

func TestUserService_UpdateProfile_BioTooLong(t *testing.T) {
	updated := false
	repo := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{ID: 1, Email: "alice@example.com"}, nil
		},
		updateProfileFn: func(_ context.Context, user models.User) (models.User, error) {
			updated = true
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	longBio := strings.Repeat("x", 501)
	_, err := svc.UpdateProfile(context.Background(), "alice@example.com", models.ProfileUpdate{
		Bio: &longBio,
	})

	require.ErrorIs(t, err, ErrValidationBioTooLong)
	assert.False(t, updated)
}

// The bio limit counts characters, not bytes: 500 two-byte runes fit.
func TestUserService_UpdateProfile_MultibyteBio(t *testing.T) {
	repo := &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, _ string) (models.User, error) {
			return models.User{ID: 1, Email: "alice@example.com"}, nil
		},
		updateProfileFn: func(_ context.Context, user models.User) (models.User, error) {
			return user, nil
		},
	}
	svc := newTestUserService(repo)

	bio := strings.Repeat("ö", 500)
	user, err := svc.UpdateProfile(context.Background(), "alice@example.com", models.ProfileUpdate{
		Bio: &bio,
	})

	require.NoError(t, err)
	assert.Equal(t, bio, user.Bio)
}

func TestUserService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := newTestUserService(&mockUserRepository{})

	_, err := svc.UpdateProfile(context.Background(), "ghost@example.com", models.ProfileUpdate{})

	require.ErrorIs(t, err, store.ErrNoUserWasFound)
}

// ─────────────────────────────────────────────
// Follow / Unfollow
// ─────────────────────────────────────────────

// followRepo resolves alice (id 1) and bob (id 2, 5 followers); alice's
// following set is configurable.
func followRepo(aliceFollowing []int64, written *bool, gotFollow *bool) *mockUserRepository {
	return &mockUserRepository{
		findUserByEmailFn: func(_ context.Context, email string) (models.User, error) {
			switch email {
			case "alice@example.com":
				return models.User{ID: 1, Email: email, Following: aliceFollowing}, nil
			case "bob@example.com":
				return models.User{ID: 2, Email: email, Username: "bob", Followers: 5, Password: "hash"}, nil
			}
			return models.User{}, store.ErrNoUserWasFound
		},
		saveFollowChangeFn: func(_ context.Context, _, _ int64, follow bool) error {
			*written = true
			*gotFollow = follow
			return nil
		},
	}
}

func TestUserService_Follow_NewEdge(t *testing.T) {
	var gotFollower, gotFollowee int64
	var gotFollow, written bool
	repo := followRepo(nil, &written, &gotFollow)
	repo.saveFollowChangeFn = func(_ context.Context, followerID, followeeID int64, follow bool) error {
		written = true
		gotFollower, gotFollowee, gotFollow = followerID, followeeID, follow
		return nil
	}
	svc := newTestUserService(repo)

	target, err := svc.Follow(context.Background(), "alice@example.com", "bob@example.com")

	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, int64(1), gotFollower)
	assert.Equal(t, int64(2), gotFollowee)
	assert.True(t, gotFollow)
	assert.Equal(t, 6, target.Followers, "returned target must reflect the new follower")
	assert.Empty(t, target.Password)
}

func TestUserService_Follow_AlreadyFollowing_NoWrite(t *testing.T) {
	var gotFollow, written bool
	svc := newTestUserService(followRepo([]int64{2}, &written, &gotFollow))

	target, err := svc.Follow(context.Background(), "alice@example.com", "bob@example.com")

	require.NoError(t, err)
	assert.False(t, written, "repeated follow must not touch the store")
	assert.Equal(t, 5, target.Followers, "counter must not move on a repeated follow")
}

func TestUserService_Unfollow_ExistingEdge(t *testing.T) {
	var gotFollow, written bool
	svc := newTestUserService(followRepo([]int64{2}, &written, &gotFollow))

	target, err := svc.Unfollow(context.Background(), "alice@example.com", "bob@example.com")

	require.NoError(t, err)
	assert.True(t, written)
	assert.False(t, gotFollow)
	assert.Equal(t, 4, target.Followers)
}

func TestUserService_Unfollow_NotFollowing_NoWrite(t *testing.T) {
	var gotFollow, written bool
	svc := newTestUserService(followRepo(nil, &written, &gotFollow))

	target, err := svc.Unfollow(context.Background(), "alice@example.com", "bob@example.com")

	require.NoError(t, err)
	assert.False(t, written, "unfollow without an edge must not touch the store")
	assert.Equal(t, 5, target.Followers, "counter must not move without a write")
}

func TestUserService_Unfollow_CounterNeverNegative(t *testing.T) {
	var gotFollow, written bool
	repo := followRepo([]int64{2}, &written, &gotFollow)
	base := repo.findUserByEmailFn
	repo.findUserByEmailFn = func(ctx context.Context, email string) (models.User, error) {
		user, err := base(ctx, email)
		user.Followers = 0
		return user, err
	}
	svc := newTestUserService(repo)

	target, err := svc.Unfollow(context.Background(), "alice@example.com", "bob@example.com")

	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 0, target.Followers, "counter never goes below zero")
}

func TestUserService_Follow_UnknownTarget(t *testing.T) {
	var gotFollow, written bool
	svc := newTestUserService(followRepo(nil, &written, &gotFollow))

	_, err := svc.Follow(context.Background(), "alice@example.com", "ghost@example.com")

	require.ErrorIs(t, err, store.ErrNoUserWasFound)
	assert.False(t, written)
}
