package game

import (
	"context"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/dependencies/clock"
	"github.com/mcoot/tictacgame-go/internal/dependencies/random"
	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/services/engine"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 12
	// GameIDAlphabet is the characters used in game ids
	GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service owns per-game turn enforcement, move application and chat. The
// authoritative turn lock is the storage layer's conditional board update;
// the in-memory checks before it are fast-path validation only.
type Service struct {
	storage   storage.Storage
	registry  *registry.Registry
	clock     clock.Clock
	random    random.Random
	boardSize int
	logger    *slog.Logger
}

// New creates a new game Service
func New(
	storage storage.Storage,
	reg *registry.Registry,
	clock clock.Clock,
	random random.Random,
	boardSize int,
	logger *slog.Logger,
) *Service {
	if boardSize <= 0 {
		boardSize = model.DefaultBoardSize
	}
	return &Service{
		storage:   storage,
		registry:  reg,
		clock:     clock,
		random:    random,
		boardSize: boardSize,
		logger:    logger.With(slog.String("component", "game")),
	}
}

// CreateGame creates a new game between the two gamers. The first gamer is
// the starting player and therefore plays x and moves first.
func (s *Service) CreateGame(ctx context.Context, p1, p2 *model.Gamer) (*model.Game, error) {
	game := &model.Game{
		ID:              model.GameID(s.random.String(GameIDLength, GameIDAlphabet)),
		Player1Sid:      p1.Sid,
		Player1UserName: p1.UserName,
		Player1FullName: p1.FullName,
		Player2Sid:      p2.Sid,
		Player2UserName: p2.UserName,
		Player2FullName: p2.FullName,
		Board:           model.NewBoard(s.boardSize),
		Chat:            []model.ChatMessage{},
		StartingPlayer:  p1.Sid,
		CurrentPlayer:   p1.Sid,
		CreatedOn:       s.clock.Now(),
	}

	if err := s.storage.CreateGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("player1", p1.UserName),
		slog.String("player2", p2.UserName),
	)

	return game, nil
}

// FindGame retrieves a game by id
func (s *Service) FindGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return s.storage.FindGame(ctx, id)
}

// PlaceMarker applies the caller's move. On success it notifies the caller
// and the opponent of the accepted move, then evaluates the terminal
// condition and notifies both sides of a win or draw.
//
// The occupied-cell check here reads a possibly stale copy; the storage
// layer's conditional update is the real guard. A conflicting or
// out-of-turn write fails that condition and surfaces as ErrNotYourTurn.
//
// If the opponent's connection is gone after the write, the move stands
// (already persisted) and ErrPeerUnavailable is reported to the mover.
func (s *Service) PlaceMarker(ctx context.Context, conn registry.Conn, gameID model.GameID, row, col int) error {
	sid := conn.SessionID()

	game, err := s.storage.FindGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !game.HasPlayer(sid) {
		return model.ErrNotInGame
	}
	if !game.Board.InBounds(row, col) {
		return model.ErrInvalidPosition
	}
	if game.Board.Cell(row, col) != model.MarkerEmpty {
		return model.ErrCellOccupied
	}

	marker := game.MarkerFor(sid)
	opponentSid := game.OpponentSid(sid)

	board := game.Board.Clone()
	board.SetCell(row, col, marker)

	if err := s.storage.UpdateBoard(ctx, sid, gameID, opponentSid, board); err != nil {
		return err
	}

	opponent, ok := s.registry.Resolve(opponentSid)
	if !ok {
		// The move is persisted and not rolled back; only the follow-up
		// notification fails
		return model.ErrPeerUnavailable
	}

	move := protocol.MovePayload{Row: row, Col: col, Marker: marker}
	conn.Send(protocol.OK(protocol.EventPlaceMarker, move))
	opponent.Send(protocol.OK(protocol.EventGameMove, move))

	if engine.Evaluate(board, row, col, marker) {
		s.logger.Info("game won",
			slog.String("game_id", string(gameID)),
			slog.String("winner_sid", sid),
		)
		over := protocol.OK(protocol.EventGameOver, protocol.GameOverPayload{Winner: sid})
		conn.Send(over)
		opponent.Send(over)
		return nil
	}

	if engine.IsFull(board) {
		s.logger.Info("game drawn", slog.String("game_id", string(gameID)))
		over := protocol.OK(protocol.EventGameOver, protocol.GameOverPayload{Draw: true})
		conn.Send(over)
		opponent.Send(over)
	}

	return nil
}

// SendMessage appends a chat message to the game and delivers it to the
// opponent. Chat is independent of turn state and may be sent at any point
// in the game's life, including after it has been won or drawn.
func (s *Service) SendMessage(ctx context.Context, conn registry.Conn, gameID model.GameID, text string) error {
	sid := conn.SessionID()

	game, err := s.storage.FindGame(ctx, gameID)
	if err != nil {
		return err
	}
	if !game.HasPlayer(sid) {
		return model.ErrNotInGame
	}

	opponentSid := game.OpponentSid(sid)
	opponent, ok := s.registry.Resolve(opponentSid)
	if !ok {
		return model.ErrPeerUnavailable
	}

	msg := model.ChatMessage{
		From:    game.UserNameFor(sid),
		To:      game.UserNameFor(opponentSid),
		Message: text,
	}
	if err := s.storage.AppendChatMessage(ctx, gameID, msg); err != nil {
		return err
	}

	opponent.Send(protocol.OK(protocol.EventChatMessage, protocol.ChatPayload{
		FromSid: sid,
		Message: text,
	}))

	return nil
}
