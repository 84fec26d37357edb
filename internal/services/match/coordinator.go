package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/services/game"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Coordinator owns the invite -> accept/decline handshake between two
// independently connected peers. It keeps no state of its own: an invite
// exists only as the message delivered to the invitee, and every step
// re-resolves both session ids against the live registry. An unreachable
// peer aborts the step and is reported to whichever side is still reachable.
type Coordinator struct {
	storage  storage.Storage
	registry *registry.Registry
	games    *game.Service
	logger   *slog.Logger
}

// New creates a new match Coordinator
func New(storage storage.Storage, reg *registry.Registry, games *game.Service, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		storage:  storage,
		registry: reg,
		games:    games,
		logger:   logger.With(slog.String("component", "match")),
	}
}

// Invite delivers a game invite to the gamer bound to toSid, carrying the
// inviter's session id and gamer profile
func (c *Coordinator) Invite(ctx context.Context, fromSid, toSid string) error {
	conn, ok := c.registry.Resolve(toSid)
	if !ok {
		return model.ErrPeerUnavailable
	}

	gamer, err := c.storage.FindGamerBySid(ctx, fromSid)
	if err != nil {
		return err
	}

	conn.Send(protocol.OK(protocol.EventGameInvite, protocol.InvitePayload{
		Sid:   fromSid,
		Gamer: gamer,
	}))

	c.logger.Info("invite delivered",
		slog.String("from_sid", fromSid),
		slog.String("to_sid", toSid),
	)

	return nil
}

// Decline notifies the original inviter that the invite was declined. The
// decline is delivered as an error envelope on the inviteGamer event, which
// is the channel the inviter's pending request is listening on.
func (c *Coordinator) Decline(ctx context.Context, fromSid, toSid string) error {
	conn, ok := c.registry.Resolve(toSid)
	if !ok {
		return model.ErrPeerUnavailable
	}

	conn.Send(protocol.Error(protocol.EventInviteGamer, "User declined game"))
	return nil
}

// Accept creates a game between the inviter and the accepting player and
// delivers the game document to both connections: the inviter's reply
// arrives on the inviteGamer event, the accepter's on acceptGame. The
// inviter is the starting player and moves first with x.
//
// This is the only path that creates a Game. If the pair of session ids does
// not resolve to exactly two gamer records, or game creation fails, both
// sides are notified (the inviter here, the accepter through the returned
// error).
func (c *Coordinator) Accept(ctx context.Context, conn registry.Conn, toSid string) error {
	fromSid := conn.SessionID()

	inviter, ok := c.registry.Resolve(toSid)
	if !ok {
		return model.ErrPeerUnavailable
	}

	// Inviter first: game creation assigns the starting player positionally
	gamers, err := c.storage.FindGamersBySids(ctx, []string{toSid, fromSid})
	if err != nil || len(gamers) != 2 {
		inviter.Send(protocol.Error(protocol.EventInviteGamer, "Failed to locate players for game acceptance"))
		if err != nil {
			return fmt.Errorf("%w: %w", model.ErrPlayersNotFound, err)
		}
		return model.ErrPlayersNotFound
	}

	created, err := c.games.CreateGame(ctx, gamers[0], gamers[1])
	if err != nil {
		inviter.Send(protocol.Error(protocol.EventInviteGamer, "Failed to create a new game"))
		return fmt.Errorf("failed to create a new game: %w", err)
	}

	inviter.Send(protocol.OK(protocol.EventInviteGamer, created))
	conn.Send(protocol.OK(protocol.EventAcceptGame, created))

	return nil
}
