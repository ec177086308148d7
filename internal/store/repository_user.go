package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/ledskov/openwall/internal/logger"
	"github.com/ledskov/openwall/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account creation, lookups, profile updates and the follower
// graph against the "users" and "user_following" tables.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one users-table row in [userColumns] order.
func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.DisplayName,
		&u.Email,
		&u.Password,
		&u.Avatar,
		&u.Bio,
		&u.Location,
		&u.Website,
		&u.BirthDate,
		&u.Profession,
		&u.Followers,
		&u.JoinDate,
		&u.LastModified,
		&u.Active,
	)
	return u, err
}

// CreateUser persists a new user record and returns the fully populated
// [models.User] with server-assigned fields (ID, JoinDate, LastModified).
//
// Error handling:
//   - unique_violation on the username constraint → [ErrUsernameAlreadyExists].
//   - unique_violation on the email constraint → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → wrapped [ErrScanningRow].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Username, user.DisplayName, user.Email, user.Password, user.Avatar, user.Bio)

	created, err := scanUser(row)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.CreateUser").
			Str("username", user.Username).
			Bool("retryable", r.db.isRetryable(err)).
			Msg("user creation failed")

		if postgresError(err) == pgerrcode.UniqueViolation {
			switch postgresConstraint(err) {
			case "users_username_key":
				return models.User{}, ErrUsernameAlreadyExists
			default:
				return models.User{}, ErrEmailAlreadyExists
			}
		}

		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	created.Following = make([]int64, 0)
	return created, nil
}

// FindUserByEmail retrieves a user record by email, with the following set
// loaded from the user_following table.
//
// Returns [ErrNoUserWasFound] when no row matches.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, findUserByEmail, email)
}

// FindUserByID retrieves a user record by its surrogate id, with the
// following set loaded.
//
// Returns [ErrNoUserWasFound] when no row matches.
func (r *userRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findUser(ctx, findUserByID, id)
}

func (r *userRepository) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).
			Str("func", "*userRepository.findUser").
			Bool("retryable", r.db.isRetryable(err)).
			Msg("user lookup failed")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	if err := r.loadFollowing(ctx, &user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// GetAllActiveUsers returns every user with active = true, oldest account
// first, each with their following set loaded.
func (r *userRepository) GetAllActiveUsers(ctx context.Context) ([]models.User, error) {
	query, args, err := buildActiveUsersQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryUsers(ctx, query, args...)
}

// SearchUsers returns active users whose username or display name contains
// query, case-insensitively.
func (r *userRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	sqlQuery, args, err := buildSearchUsersQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.queryUsers(ctx, sqlQuery, args...)
}

func (r *userRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.queryUsers").
			Bool("retryable", r.db.isRetryable(err)).
			Msg("failed to execute users query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	users := make([]models.User, 0, 16)
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.queryUsers").Msg("failed to scan user row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		users = append(users, user)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRepository.queryUsers").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	for i := range users {
		if err := r.loadFollowing(ctx, &users[i]); err != nil {
			return nil, err
		}
	}

	return users, nil
}

// loadFollowing populates user.Following from the user_following table.
func (r *userRepository) loadFollowing(ctx context.Context, user *models.User) error {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findFollowingIDs, user.ID)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.loadFollowing").
			Int64("user_id", user.ID).
			Msg("failed to load following set")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	following := make([]int64, 0, 8)
	for rows.Next() {
		var id int64
		if scanErr := rows.Scan(&id); scanErr != nil {
			return fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		following = append(following, id)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	user.Following = following
	return nil
}

// UpdateProfile persists the mutable profile columns of user, bumps
// last_modified to the current time, and returns the stored record.
//
// Returns [ErrNoUserWasFound] when no row matches user.ID.
func (r *userRepository) UpdateProfile(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateProfileQuery(user.ID,
		user.DisplayName, user.Bio, user.Location, user.Website, user.Avatar, user.Profession, user.BirthDate)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)

	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}

		log.Err(err).
			Str("func", "*userRepository.UpdateProfile").
			Int64("user_id", user.ID).
			Bool("retryable", r.db.isRetryable(err)).
			Msg("profile update failed")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	updated.Following = user.Following
	return updated, nil
}

// SaveFollowChange records a follow (or unfollow) of followeeID by
// followerID. The edge write and the follower-counter adjustment execute in
// one transaction so the graph and the derived counter cannot drift apart.
// The counter is floored at zero on unfollow.
func (r *userRepository) SaveFollowChange(ctx context.Context, followerID, followeeID int64, follow bool) error {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.SaveFollowChange").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	edgeQuery, counterQuery := insertFollowEdge, incrementFollowers
	if !follow {
		edgeQuery, counterQuery = deleteFollowEdge, decrementFollowers
	}

	res, err := tx.ExecContext(ctx, edgeQuery, followerID, followeeID)
	if err != nil {
		log.Err(err).
			Str("func", "*userRepository.SaveFollowChange").
			Int64("follower_id", followerID).
			Int64("followee_id", followeeID).
			Bool("retryable", r.db.isRetryable(err)).
			Msg("failed to write follow edge")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	// The counter moves only when the edge actually changed; concurrent
	// idempotent calls hit ON CONFLICT DO NOTHING / zero-row DELETE.
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected > 0 {
		if _, err := tx.ExecContext(ctx, counterQuery, followeeID); err != nil {
			log.Err(err).
				Str("func", "*userRepository.SaveFollowChange").
				Int64("followee_id", followeeID).
				Msg("failed to adjust follower counter")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*userRepository.SaveFollowChange").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}
