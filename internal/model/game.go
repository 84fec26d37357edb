package model

import "time"

// GameID uniquely identifies a game
type GameID string

// ChatMessage is one entry in a game's append-only chat log
type ChatMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// Game is the durable record of one match: both players' identity as
// captured at acceptance time, the shared board, whose turn it is, and the
// chat log. Exactly one of the two session ids equals CurrentPlayer at all
// times; board cells are written once and never overwritten; Chat only grows.
type Game struct {
	ID GameID `json:"gameId"`

	Player1Sid      string `json:"player1Sid"`
	Player1UserName string `json:"player1UserName"`
	Player1FullName string `json:"player1FullName"`
	Player2Sid      string `json:"player2Sid"`
	Player2UserName string `json:"player2UserName"`
	Player2FullName string `json:"player2FullName"`

	Board Board         `json:"board"`
	Chat  []ChatMessage `json:"chat"`

	// StartingPlayer is fixed at creation and determines marker assignment
	// for the whole game. CurrentPlayer is the session id allowed to move.
	StartingPlayer string `json:"startingPlayer"`
	CurrentPlayer  string `json:"currentPlayer"`

	CreatedOn time.Time `json:"createdOn"`
}

// HasPlayer returns true if the session id belongs to either player
func (g *Game) HasPlayer(sid string) bool {
	return g.Player1Sid == sid || g.Player2Sid == sid
}

// OpponentSid returns the other player's session id
func (g *Game) OpponentSid(sid string) string {
	if g.Player1Sid == sid {
		return g.Player2Sid
	}
	return g.Player1Sid
}

// MarkerFor returns the marker the given session id plays with. The starting
// player is always x, regardless of whose turn it currently is.
func (g *Game) MarkerFor(sid string) Marker {
	if g.StartingPlayer == sid {
		return MarkerX
	}
	return MarkerO
}

// UserNameFor returns the user name stored for the given session id
func (g *Game) UserNameFor(sid string) string {
	if g.Player1Sid == sid {
		return g.Player1UserName
	}
	return g.Player2UserName
}
