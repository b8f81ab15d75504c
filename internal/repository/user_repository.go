package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const uniqueViolationCode = "23505"

type UserRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewUserRepository(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *UserRepo) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	const op = "repository.UserRepo.SaveUser"

	query, args, err := r.sb.Insert("users").
		Columns("username", "email", "pass_hash").
		Values(user.Username, user.Email, user.PassHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrUserExists)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// UserByIdentifier looks a user up by email or username.
func (r *UserRepo) UserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	const op = "repository.UserRepo.UserByIdentifier"

	query, args, err := r.sb.Select("id", "username", "email", "pass_hash", "registered_at").
		From("users").
		Where(sq.Or{sq.Eq{"email": identifier}, sq.Eq{"username": identifier}}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PassHash,
		&user.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "repository.UserRepo.GetUserByID"

	query, args, err := r.sb.Select("id", "username", "email", "pass_hash", "registered_at").
		From("users").
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var user models.User
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PassHash,
		&user.RegisteredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
