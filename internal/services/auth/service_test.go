package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/storage/memory"
	"github.com/mcoot/tictacgame-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	registry *registry.Registry
	clock    *mocks.MockClock
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.registry = registry.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.registry, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterSucceeds() {
	gamer, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	s.Equal("alice", gamer.UserName)
	s.Equal("Alice A", gamer.FullName)
	s.Equal("sid-1", gamer.Sid)
}

func (s *ServiceSuite) TestRegisterHashesPassword() {
	_, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	user, err := s.storage.FindUserByUserName(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(user.PasswordHash)
	s.NotEqual("secret", user.PasswordHash)
	s.Equal(s.clock.CurrentTime, user.CreatedOn)
}

func (s *ServiceSuite) TestRegisterAuthenticatesSession() {
	_, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	s.True(s.registry.IsAuthenticated("sid-1"))
	userName, _ := s.registry.UserName("sid-1")
	s.Equal("alice", userName)
}

func (s *ServiceSuite) TestRegisterFailsIfUserExists() {
	_, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "sid-2", "Other Alice", "alice", "different")
	s.ErrorIs(err, model.ErrUserExists)
	s.False(s.registry.IsAuthenticated("sid-2"))
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	_, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	gamer, err := s.service.Login(s.ctx, "sid-2", "alice", "secret")
	s.Require().NoError(err)
	s.Equal("alice", gamer.UserName)
	s.Equal("sid-2", gamer.Sid)
	s.True(s.registry.IsAuthenticated("sid-2"))
}

func (s *ServiceSuite) TestLoginRefreshesPresenceSid() {
	_, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "sid-2", "alice", "secret")
	s.Require().NoError(err)

	// The presence record moved to the new session id
	_, err = s.storage.FindGamerBySid(s.ctx, "sid-1")
	s.ErrorIs(err, model.ErrGamerNotFound)

	gamer, err := s.storage.FindGamerBySid(s.ctx, "sid-2")
	s.Require().NoError(err)
	s.Equal("alice", gamer.UserName)
}

func (s *ServiceSuite) TestLoginFailsWithWrongPassword() {
	_, err := s.service.Register(s.ctx, "sid-1", "Alice A", "alice", "secret")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "sid-2", "alice", "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)
	s.False(s.registry.IsAuthenticated("sid-2"))
}

func (s *ServiceSuite) TestLoginFailsWithUnknownUser() {
	_, err := s.service.Login(s.ctx, "sid-1", "nobody", "secret")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}
