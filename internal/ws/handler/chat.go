package handler

import (
	"context"
	"encoding/json"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
)

// handleSendMessage relays a chat message to the game's other player. The
// opponent receives the chatMessage event; the sender gets an empty ack.
func (h *Handlers) handleSendMessage(ctx context.Context, conn registry.Conn, data json.RawMessage) {
	if !h.requireAuth(conn, protocol.EventSendMessage) {
		return
	}

	var req protocol.SendMessageRequest
	if err := h.decode(data, &req); err != nil {
		conn.Send(protocol.Error(protocol.EventSendMessage, validationMessage))
		return
	}

	if err := h.games.SendMessage(ctx, conn, model.GameID(req.GameID), req.Message); err != nil {
		h.sendError(conn, protocol.EventSendMessage, err)
		return
	}

	conn.Send(protocol.OK(protocol.EventSendMessage, map[string]any{}))
}
