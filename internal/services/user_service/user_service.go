package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/raks-h21/muse-weave-27/internal/domain/models"
	"github.com/raks-h21/muse-weave-27/internal/lib/jwt"
	"github.com/raks-h21/muse-weave-27/internal/lib/logger/sl"
	"github.com/raks-h21/muse-weave-27/internal/repository"
	"github.com/raks-h21/muse-weave-27/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrInvalidToken       = errors.New("invalid refresh token")
)

type UserService struct {
	log         *slog.Logger
	users       repository.UserRepository
	tokens      repository.TokenRepository
	tokenSecret string
	tokenTTL    time.Duration
	refreshTTL  time.Duration
}

func NewUserService(
	log *slog.Logger,
	users repository.UserRepository,
	tokens repository.TokenRepository,
	tokenSecret string,
	tokenTTL, refreshTTL time.Duration,
) *UserService {
	return &UserService{
		log:         log,
		users:       users,
		tokens:      tokens,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
		refreshTTL:  refreshTTL,
	}
}

func (s *UserService) RegisterNewUser(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	const op = "user_service.RegisterNewUser"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.SaveUser(ctx, models.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", sl.Err(err))
			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserExist)
		}
		log.Error("failed to save user", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))

	return id, nil
}

func (s *UserService) Login(ctx context.Context, identifier, password string) (*models.TokenPair, error) {
	const op = "user_service.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("identifier", identifier),
	)

	log.Info("attempting to login user")

	user, err := s.users.UserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")

	return pair, nil
}

// RefreshTokens rotates the refresh token: the presented one is consumed and
// a new pair is issued.
func (s *UserService) RefreshTokens(ctx context.Context, userID uuid.UUID, refreshToken string) (*models.TokenPair, error) {
	const op = "user_service.RefreshTokens"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	valid, err := s.tokens.GetRefreshToken(ctx, userID.String(), refreshToken)
	if err != nil {
		log.Error("failed to check refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !valid {
		log.Warn("refresh token not recognized")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		log.Error("failed to get user", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tokens.DeleteRefreshToken(ctx, userID.String(), refreshToken); err != nil {
		log.Error("failed to delete old refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pair, nil
}

func (s *UserService) SignOut(ctx context.Context, userID uuid.UUID) error {
	const op = "user_service.SignOut"

	if err := s.tokens.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		s.log.Error("failed to delete tokens", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "user_service.GetUserByID"

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get user", slog.String("op", op), sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *UserService) issueTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	accessToken, err := jwt.NewToken(user, s.tokenSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken := uuid.NewString()
	if err := s.tokens.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
