package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *redis.Client
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GamerTTL = time.Hour
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(s.client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
}

func (s *StorageSuite) newGame(id model.GameID, p1Sid, p2Sid string) *model.Game {
	return &model.Game{
		ID:              id,
		Player1Sid:      p1Sid,
		Player1UserName: "alice",
		Player2Sid:      p2Sid,
		Player2UserName: "bob",
		Board:           model.NewBoard(3),
		Chat:            []model.ChatMessage{},
		StartingPlayer:  p1Sid,
		CurrentPlayer:   p1Sid,
	}
}

// User tests

func (s *StorageSuite) TestCreateAndFindUser() {
	user := &model.User{UserName: "alice", FullName: "Alice A", PasswordHash: "hash"}
	s.Require().NoError(s.storage.CreateUser(s.ctx, user))

	found, err := s.storage.FindUserByUserName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice A", found.FullName)
}

func (s *StorageSuite) TestCreateUserDuplicate() {
	s.Require().NoError(s.storage.CreateUser(s.ctx, &model.User{UserName: "alice"}))

	err := s.storage.CreateUser(s.ctx, &model.User{UserName: "alice"})
	s.ErrorIs(err, model.ErrUserExists)
}

func (s *StorageSuite) TestFindUserNotFound() {
	_, err := s.storage.FindUserByUserName(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Gamer tests

func (s *StorageSuite) TestUpsertAndFindGamer() {
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "alice", "Alice A", "sid-1"))

	gamer, err := s.storage.FindGamerBySid(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.Equal("alice", gamer.UserName)
	s.Equal("sid-1", gamer.Sid)
}

func (s *StorageSuite) TestStaleSidIndexDoesNotResolve() {
	// Same user reconnects with a new sid; the old index entry is still in
	// Redis but must not resolve to the gamer record anymore
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "alice", "Alice A", "sid-old"))
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "alice", "Alice A", "sid-new"))

	_, err := s.storage.FindGamerBySid(s.ctx, "sid-old")
	s.ErrorIs(err, model.ErrGamerNotFound)

	gamer, err := s.storage.FindGamerBySid(s.ctx, "sid-new")
	s.Require().NoError(err)
	s.Equal("sid-new", gamer.Sid)
}

func (s *StorageSuite) TestGamerExpiresAfterTTL() {
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "alice", "Alice A", "sid-1"))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.FindGamerBySid(s.ctx, "sid-1")
	s.ErrorIs(err, model.ErrGamerNotFound)
}

func (s *StorageSuite) TestTouchGamersExtendsTTL() {
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "alice", "Alice A", "sid-1"))

	s.mini.FastForward(45 * time.Minute)
	s.Require().NoError(s.storage.TouchGamers(s.ctx, []string{"sid-1"}))
	s.mini.FastForward(45 * time.Minute)

	gamer, err := s.storage.FindGamerBySid(s.ctx, "sid-1")
	s.Require().NoError(err)
	s.Equal("alice", gamer.UserName)
}

func (s *StorageSuite) TestFindGamersBySidsSkipsMissing() {
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "alice", "Alice A", "sid-1"))
	s.Require().NoError(s.storage.UpsertGamer(s.ctx, "bob", "Bob B", "sid-2"))

	gamers, err := s.storage.FindGamersBySids(s.ctx, []string{"sid-1", "sid-gone", "sid-2"})
	s.Require().NoError(err)
	s.Len(gamers, 2)
}

// Game tests

func (s *StorageSuite) TestCreateAndFindGame() {
	game := s.newGame("GAME1", "sid-1", "sid-2")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	found, err := s.storage.FindGame(s.ctx, "GAME1")
	s.Require().NoError(err)
	s.Equal(game.ID, found.ID)
	s.Equal("sid-1", found.CurrentPlayer)
	s.Equal(3, found.Board.Size())
}

func (s *StorageSuite) TestFindGameNotFound() {
	_, err := s.storage.FindGame(s.ctx, "NOPE")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestUpdateBoardAdvancesTurn() {
	game := s.newGame("GAME1", "sid-1", "sid-2")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	board := game.Board.Clone()
	board.SetCell(1, 1, model.MarkerX)
	s.Require().NoError(s.storage.UpdateBoard(s.ctx, "sid-1", "GAME1", "sid-2", board))

	found, _ := s.storage.FindGame(s.ctx, "GAME1")
	s.Equal(model.MarkerX, found.Board.Cell(1, 1))
	s.Equal("sid-2", found.CurrentPlayer)
}

func (s *StorageSuite) TestUpdateBoardRejectsOutOfTurn() {
	game := s.newGame("GAME1", "sid-1", "sid-2")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	board := game.Board.Clone()
	board.SetCell(1, 1, model.MarkerO)
	err := s.storage.UpdateBoard(s.ctx, "sid-2", "GAME1", "sid-1", board)
	s.ErrorIs(err, model.ErrNotYourTurn)

	found, _ := s.storage.FindGame(s.ctx, "GAME1")
	s.Equal(model.MarkerEmpty, found.Board.Cell(1, 1))
	s.Equal("sid-1", found.CurrentPlayer)
}

// rewriteKeyHook rewrites a key directly in miniredis before every pipelined
// exec, so each WATCH transaction against that key fails even though its
// contents are unchanged.
type rewriteKeyHook struct {
	mini *miniredis.Miniredis
	key  string
}

func (h *rewriteKeyHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *rewriteKeyHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return next
}

func (h *rewriteKeyHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if v, err := h.mini.Get(h.key); err == nil {
			_ = h.mini.Set(h.key, v)
		}
		return next(ctx, cmds)
	}
}

func (s *StorageSuite) TestUpdateBoardRetryExhaustionIsNotOutOfTurn() {
	game := s.newGame("GAME1", "sid-1", "sid-2")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	// Force a conflict on every attempt without the turn ever changing, as a
	// stream of chat appends against the same game document would
	s.client.AddHook(&rewriteKeyHook{mini: s.mini, key: gameKey("GAME1")})

	board := game.Board.Clone()
	board.SetCell(1, 1, model.MarkerX)
	err := s.storage.UpdateBoard(s.ctx, "sid-1", "GAME1", "sid-2", board)

	// It is still sid-1's turn, so the failure must not be reported as a
	// turn violation
	s.Require().Error(err)
	s.NotErrorIs(err, model.ErrNotYourTurn)

	found, _ := s.storage.FindGame(s.ctx, "GAME1")
	s.Equal("sid-1", found.CurrentPlayer)
	s.Equal(model.MarkerEmpty, found.Board.Cell(1, 1))
}

func (s *StorageSuite) TestUpdateBoardUnknownGame() {
	err := s.storage.UpdateBoard(s.ctx, "sid-1", "NOPE", "sid-2", model.NewBoard(3))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestAppendChatMessage() {
	game := s.newGame("GAME1", "sid-1", "sid-2")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	s.Require().NoError(s.storage.AppendChatMessage(s.ctx, "GAME1", model.ChatMessage{From: "alice", To: "bob", Message: "hello"}))

	found, _ := s.storage.FindGame(s.ctx, "GAME1")
	s.Require().Len(found.Chat, 1)
	s.Equal("hello", found.Chat[0].Message)
}

func (s *StorageSuite) TestAppendChatMessageUnknownGame() {
	err := s.storage.AppendChatMessage(s.ctx, "NOPE", model.ChatMessage{})
	s.ErrorIs(err, model.ErrGameNotFound)
}
