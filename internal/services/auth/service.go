package auth

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Service handles registration and login. A successful call of either kind
// promotes the calling session to authenticated and refreshes the caller's
// gamer presence record with the current session id.
type Service struct {
	storage  storage.Storage
	registry *registry.Registry
	clock    clock.Clock
	logger   *slog.Logger
}

// New creates a new auth Service
func New(storage storage.Storage, reg *registry.Registry, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		registry: reg,
		clock:    clock,
		logger:   logger.With(slog.String("component", "auth")),
	}
}

// Register creates a new user account and logs the session in. Returns the
// caller's refreshed gamer record so the caller can be announced to other
// connections.
func (s *Service) Register(ctx context.Context, sid, fullName, userName, password string) (*model.Gamer, error) {
	_, err := s.storage.FindUserByUserName(ctx, userName)
	if err == nil {
		return nil, model.ErrUserExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName:     userName,
		FullName:     fullName,
		PasswordHash: string(hash),
		CreatedOn:    s.clock.Now(),
	}

	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_name", userName))

	return s.loginSession(ctx, sid, user)
}

// Login authenticates a registered user and logs the session in
func (s *Service) Login(ctx context.Context, sid, userName, password string) (*model.Gamer, error) {
	user, err := s.storage.FindUserByUserName(ctx, userName)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return s.loginSession(ctx, sid, user)
}

// loginSession records the session as authenticated and upserts the user's
// presence record under the new session id, overwriting any record left by a
// previous connection.
func (s *Service) loginSession(ctx context.Context, sid string, user *model.User) (*model.Gamer, error) {
	if err := s.storage.UpsertGamer(ctx, user.UserName, user.FullName, sid); err != nil {
		return nil, err
	}

	s.registry.MarkAuthenticated(sid, user.UserName)

	s.logger.Info("session authenticated",
		slog.String("sid", sid),
		slog.String("user_name", user.UserName),
	)

	return s.storage.FindGamerBySid(ctx, sid)
}
