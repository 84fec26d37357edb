package handler

import (
	"context"
	"encoding/json"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
)

// handleFindAllAvailableGamers lists every other connected, logged-in gamer
func (h *Handlers) handleFindAllAvailableGamers(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	if !h.requireAuth(conn, protocol.EventFindAllAvailableGamers) {
		return
	}

	gamers, err := h.directory.ListAvailable(ctx, conn.SessionID())
	if err != nil {
		h.sendError(conn, protocol.EventFindAllAvailableGamers, err)
		return
	}

	conn.Send(protocol.OK(protocol.EventFindAllAvailableGamers, gamers))
}

// handleInviteGamer delivers an invite to another connected gamer. The
// invitee gets the gameInvite event; the caller hears nothing unless the
// invite could not be delivered.
func (h *Handlers) handleInviteGamer(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	if !h.requireAuth(conn, protocol.EventInviteGamer) {
		return
	}

	var req protocol.TargetGamerRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventInviteGamer, validationMessage))
		return
	}

	if err := h.match.Invite(ctx, conn.SessionID(), req.Sid); err != nil {
		h.sendError(conn, protocol.EventInviteGamer, err)
	}
}

// handleDeclineGame forwards a decline to the original inviter
func (h *Handlers) handleDeclineGame(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	if !h.requireAuth(conn, protocol.EventDeclineGame) {
		return
	}

	var req protocol.TargetGamerRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventDeclineGame, validationMessage))
		return
	}

	if err := h.match.Decline(ctx, conn.SessionID(), req.Sid); err != nil {
		h.sendError(conn, protocol.EventDeclineGame, err)
	}
}

// handleAcceptGame accepts a pending invite; on success the coordinator has
// already delivered the new game document to both players
func (h *Handlers) handleAcceptGame(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	if !h.requireAuth(conn, protocol.EventAcceptGame) {
		return
	}

	var req protocol.TargetGamerRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventAcceptGame, validationMessage))
		return
	}

	if err := h.match.Accept(ctx, conn, req.Sid); err != nil {
		h.sendError(conn, protocol.EventAcceptGame, err)
	}
}

// handlePlaceMarker applies a move; on success the game service has already
// notified both players of the move and any game-over condition
func (h *Handlers) handlePlaceMarker(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	if !h.requireAuth(conn, protocol.EventPlaceMarker) {
		return
	}

	var req protocol.PlaceMarkerRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventPlaceMarker, validationMessage))
		return
	}

	if err := h.games.PlaceMarker(ctx, conn, model.GameID(req.GameID), req.Row, req.Col); err != nil {
		h.sendError(conn, protocol.EventPlaceMarker, err)
	}
}
