package storage

import (
	"context"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	FindUserByUserName(ctx context.Context, userName string) (*model.User, error)

	// Gamer presence operations. UpsertGamer keeps at most one record per
	// user name, overwriting the sid from any previous connection.
	// TouchGamers refreshes the records' last-active time. Records left
	// untouched past the implementation's gamer TTL expire: lookups return
	// model.ErrGamerNotFound for them in both backends.
	UpsertGamer(ctx context.Context, userName, fullName, sid string) error
	FindGamerBySid(ctx context.Context, sid string) (*model.Gamer, error)
	FindGamersBySids(ctx context.Context, sids []string) ([]*model.Gamer, error)
	TouchGamers(ctx context.Context, sids []string) error

	// Game operations. UpdateBoard is the turn lock: it persists the new
	// board and flips CurrentPlayer to nextSid only if the stored
	// CurrentPlayer still equals sid at write time, and returns
	// model.ErrNotYourTurn otherwise.
	CreateGame(ctx context.Context, game *model.Game) error
	FindGame(ctx context.Context, id model.GameID) (*model.Game, error)
	UpdateBoard(ctx context.Context, sid string, id model.GameID, nextSid string, board model.Board) error
	AppendChatMessage(ctx context.Context, id model.GameID, msg model.ChatMessage) error
}
