package protocol

import "github.com/mcoot/tictacgame-go/internal/model"

// RegisterRequest is the payload for the register event
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required"`
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest is the payload for the login event
type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TargetGamerRequest is the payload for inviteGamer, declineGame and
// acceptGame: the session id of the other player
type TargetGamerRequest struct {
	Sid string `json:"sid" validate:"required"`
}

// PlaceMarkerRequest is the payload for the placeMarker event
type PlaceMarkerRequest struct {
	GameID string `json:"gameId" validate:"required"`
	Row    int    `json:"row" validate:"gte=0"`
	Col    int    `json:"col" validate:"gte=0"`
}

// SendMessageRequest is the payload for the sendMessage event
type SendMessageRequest struct {
	GameID  string `json:"gameId" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// InvitePayload is delivered to the invitee as the gameInvite result
type InvitePayload struct {
	Sid   string       `json:"sid"`
	Gamer *model.Gamer `json:"gamer"`
}

// MovePayload is delivered to both players after an accepted move
type MovePayload struct {
	Row    int          `json:"row"`
	Col    int          `json:"col"`
	Marker model.Marker `json:"marker"`
}

// GameOverPayload is delivered to both players when a game terminates.
// Winner is the winning session id, empty on a draw.
type GameOverPayload struct {
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw,omitempty"`
}

// ChatPayload is delivered to the opponent for each chat message
type ChatPayload struct {
	FromSid string `json:"fromSid"`
	Message string `json:"message"`
}
