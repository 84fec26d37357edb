package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tictacgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/storage/memory"
	"github.com/mcoot/tictacgame-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	registry *registry.Registry
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	service  *Service
	ctx      context.Context

	alice *testutil.FakeConn
	bob   *testutil.FakeConn
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.registry = registry.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.registry, s.clock, s.random, 3, testutil.NopLogger())
	s.ctx = context.Background()

	s.alice = testutil.NewFakeConn("sid-alice")
	s.bob = testutil.NewFakeConn("sid-bob")
	s.registry.Bind("sid-alice", s.alice)
	s.registry.Bind("sid-bob", s.bob)
}

func (s *ServiceSuite) aliceGamer() *model.Gamer {
	return &model.Gamer{UserName: "alice", FullName: "Alice A", Sid: "sid-alice"}
}

func (s *ServiceSuite) bobGamer() *model.Gamer {
	return &model.Gamer{UserName: "bob", FullName: "Bob B", Sid: "sid-bob"}
}

func (s *ServiceSuite) createGame() *model.Game {
	s.random.QueueString("GAMEID000001")
	game, err := s.service.CreateGame(s.ctx, s.aliceGamer(), s.bobGamer())
	s.Require().NoError(err)
	s.alice.Reset()
	s.bob.Reset()
	return game
}

// seedGame stores a hand-built game so terminal positions can be set up
// directly
func (s *ServiceSuite) seedGame(board model.Board, currentPlayer string) *model.Game {
	game := &model.Game{
		ID:              "SEEDED000001",
		Player1Sid:      "sid-alice",
		Player1UserName: "alice",
		Player2Sid:      "sid-bob",
		Player2UserName: "bob",
		Board:           board,
		Chat:            []model.ChatMessage{},
		StartingPlayer:  "sid-alice",
		CurrentPlayer:   currentPlayer,
		CreatedOn:       s.clock.CurrentTime,
	}
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))
	return game
}

func boardFrom(rows ...string) model.Board {
	board := model.NewBoard(len(rows))
	for i, row := range rows {
		for j, c := range row {
			switch c {
			case 'x':
				board.SetCell(i, j, model.MarkerX)
			case 'o':
				board.SetCell(i, j, model.MarkerO)
			}
		}
	}
	return board
}

// CreateGame tests

func (s *ServiceSuite) TestCreateGame() {
	s.random.QueueString("GAMEID000001")
	game, err := s.service.CreateGame(s.ctx, s.aliceGamer(), s.bobGamer())
	s.Require().NoError(err)

	s.Equal(model.GameID("GAMEID000001"), game.ID)
	s.Equal("sid-alice", game.StartingPlayer)
	s.Equal("sid-alice", game.CurrentPlayer)
	s.Equal(3, game.Board.Size())
	s.Empty(game.Chat)
	s.Equal(s.clock.CurrentTime, game.CreatedOn)

	found, err := s.service.FindGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, found.ID)
}

func (s *ServiceSuite) TestStartingPlayerGetsX() {
	game := s.createGame()
	s.Equal(model.MarkerX, game.MarkerFor("sid-alice"))
	s.Equal(model.MarkerO, game.MarkerFor("sid-bob"))
}

// PlaceMarker tests

func (s *ServiceSuite) TestPlaceMarkerNotifiesBothPlayers() {
	game := s.createGame()

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 0))

	acks := s.alice.SentFor(protocol.EventPlaceMarker)
	s.Require().Len(acks, 1)
	s.True(acks[0].OK)
	s.Equal(protocol.MovePayload{Row: 0, Col: 0, Marker: model.MarkerX}, acks[0].Result)

	moves := s.bob.SentFor(protocol.EventGameMove)
	s.Require().Len(moves, 1)
	s.Equal(protocol.MovePayload{Row: 0, Col: 0, Marker: model.MarkerX}, moves[0].Result)
}

func (s *ServiceSuite) TestPlaceMarkerAdvancesTurn() {
	game := s.createGame()

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 0))

	found, _ := s.storage.FindGame(s.ctx, game.ID)
	s.Equal("sid-bob", found.CurrentPlayer)
	s.Equal(model.MarkerX, found.Board.Cell(0, 0))
}

func (s *ServiceSuite) TestPlaceMarkerOutOfTurn() {
	game := s.createGame()

	err := s.service.PlaceMarker(s.ctx, s.bob, game.ID, 0, 0)
	s.ErrorIs(err, model.ErrNotYourTurn)
	s.Empty(s.alice.Sent())
}

func (s *ServiceSuite) TestPlaceMarkerAlternatesTurns() {
	game := s.createGame()

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 0))
	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.bob, game.ID, 1, 1))

	found, _ := s.storage.FindGame(s.ctx, game.ID)
	s.Equal("sid-alice", found.CurrentPlayer)
	s.Equal(model.MarkerO, found.Board.Cell(1, 1))
}

func (s *ServiceSuite) TestPlaceMarkerOccupiedCell() {
	game := s.createGame()

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 0))

	err := s.service.PlaceMarker(s.ctx, s.bob, game.ID, 0, 0)
	s.ErrorIs(err, model.ErrCellOccupied)

	found, _ := s.storage.FindGame(s.ctx, game.ID)
	s.Equal(model.MarkerX, found.Board.Cell(0, 0))
	s.Equal("sid-bob", found.CurrentPlayer)
}

func (s *ServiceSuite) TestPlaceMarkerOutOfBounds() {
	game := s.createGame()

	s.ErrorIs(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 3, 0), model.ErrInvalidPosition)
	s.ErrorIs(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, -1), model.ErrInvalidPosition)
}

func (s *ServiceSuite) TestPlaceMarkerUnknownGame() {
	err := s.service.PlaceMarker(s.ctx, s.alice, "NOPE", 0, 0)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ServiceSuite) TestPlaceMarkerByNonPlayer() {
	game := s.createGame()
	carol := testutil.NewFakeConn("sid-carol")
	s.registry.Bind("sid-carol", carol)

	err := s.service.PlaceMarker(s.ctx, carol, game.ID, 0, 0)
	s.ErrorIs(err, model.ErrNotInGame)
}

func (s *ServiceSuite) TestPlaceMarkerOpponentGoneMoveStands() {
	game := s.createGame()
	s.registry.Unbind(s.bob)

	err := s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 0)
	s.ErrorIs(err, model.ErrPeerUnavailable)

	// The move is persisted even though delivery failed
	found, _ := s.storage.FindGame(s.ctx, game.ID)
	s.Equal(model.MarkerX, found.Board.Cell(0, 0))
	s.Equal("sid-bob", found.CurrentPlayer)
	s.Empty(s.alice.Sent())
}

func (s *ServiceSuite) TestWinningMoveSendsGameOver() {
	game := s.seedGame(boardFrom(
		"xx ",
		"oo ",
		"   ",
	), "sid-alice")

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 2))

	for _, conn := range []*testutil.FakeConn{s.alice, s.bob} {
		overs := conn.SentFor(protocol.EventGameOver)
		s.Require().Len(overs, 1)
		s.Equal(protocol.GameOverPayload{Winner: "sid-alice"}, overs[0].Result)
	}
}

func (s *ServiceSuite) TestDrawSendsGameOver() {
	// Filling (2, 2) with x completes the board without a win
	game := s.seedGame(boardFrom(
		"xox",
		"xoo",
		"ox ",
	), "sid-alice")

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 2, 2))

	for _, conn := range []*testutil.FakeConn{s.alice, s.bob} {
		overs := conn.SentFor(protocol.EventGameOver)
		s.Require().Len(overs, 1)
		s.Equal(protocol.GameOverPayload{Draw: true}, overs[0].Result)
	}
}

func (s *ServiceSuite) TestNonTerminalMoveSendsNoGameOver() {
	game := s.createGame()

	s.Require().NoError(s.service.PlaceMarker(s.ctx, s.alice, game.ID, 0, 0))

	s.Empty(s.alice.SentFor(protocol.EventGameOver))
	s.Empty(s.bob.SentFor(protocol.EventGameOver))
}

// SendMessage tests

func (s *ServiceSuite) TestSendMessageDeliversToOpponent() {
	game := s.createGame()

	s.Require().NoError(s.service.SendMessage(s.ctx, s.alice, game.ID, "good luck"))

	msgs := s.bob.SentFor(protocol.EventChatMessage)
	s.Require().Len(msgs, 1)
	s.Equal(protocol.ChatPayload{FromSid: "sid-alice", Message: "good luck"}, msgs[0].Result)
}

func (s *ServiceSuite) TestSendMessagePersistsChat() {
	game := s.createGame()

	s.Require().NoError(s.service.SendMessage(s.ctx, s.alice, game.ID, "good luck"))
	s.Require().NoError(s.service.SendMessage(s.ctx, s.bob, game.ID, "you too"))

	found, _ := s.storage.FindGame(s.ctx, game.ID)
	s.Require().Len(found.Chat, 2)
	s.Equal(model.ChatMessage{From: "alice", To: "bob", Message: "good luck"}, found.Chat[0])
	s.Equal(model.ChatMessage{From: "bob", To: "alice", Message: "you too"}, found.Chat[1])
}

func (s *ServiceSuite) TestSendMessageIgnoresTurnState() {
	game := s.createGame()

	// It is alice's turn, but bob can chat
	s.Require().NoError(s.service.SendMessage(s.ctx, s.bob, game.ID, "hurry up"))
}

func (s *ServiceSuite) TestSendMessageOpponentGone() {
	game := s.createGame()
	s.registry.Unbind(s.bob)

	err := s.service.SendMessage(s.ctx, s.alice, game.ID, "hello?")
	s.ErrorIs(err, model.ErrPeerUnavailable)

	// Nothing is persisted when the peer cannot receive it
	found, _ := s.storage.FindGame(s.ctx, game.ID)
	s.Empty(found.Chat)
}

func (s *ServiceSuite) TestSendMessageByNonPlayer() {
	game := s.createGame()
	carol := testutil.NewFakeConn("sid-carol")
	s.registry.Bind("sid-carol", carol)

	err := s.service.SendMessage(s.ctx, carol, game.ID, "let me in")
	s.ErrorIs(err, model.ErrNotInGame)
}
