package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
)

// handleRegister creates a new user account and logs the session in
func (h *Handlers) handleRegister(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	var req protocol.RegisterRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventRegister, validationMessage))
		return
	}

	gamer, err := h.auth.Register(ctx, conn.SessionID(), req.FullName, req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrUserExists) {
			conn.Send(protocol.Error(protocol.EventRegister,
				fmt.Sprintf("User with user name %s already exists", req.UserName)))
			return
		}
		h.sendError(conn, protocol.EventRegister, err)
		return
	}

	h.announceLogin(conn, protocol.EventRegister, gamer)
}

// handleLogin authenticates an existing user
func (h *Handlers) handleLogin(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	var req protocol.LoginRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventLogin, validationMessage))
		return
	}

	gamer, err := h.auth.Login(ctx, conn.SessionID(), req.UserName, req.Password)
	if err != nil {
		h.sendError(conn, protocol.EventLogin, err)
		return
	}

	h.announceLogin(conn, protocol.EventLogin, gamer)
}

// announceLogin acknowledges the successful login to the caller and fires
// gamerJoined at every other connection so their rosters update
func (h *Handlers) announceLogin(conn registry.Conn, event string, gamer *model.Gamer) {
	conn.Send(protocol.OK(event, nil))
	h.registry.Broadcast(protocol.OK(protocol.EventGamerJoined, gamer), conn.SessionID())
}
