package protocol

// Client-initiated events. The response envelope carries the same event name
// unless noted otherwise below.
const (
	EventRegister               = "register"
	EventLogin                  = "login"
	EventFindAllAvailableGamers = "findAllAvailableGamers"
	EventInviteGamer            = "inviteGamer"
	EventDeclineGame            = "declineGame"
	EventAcceptGame             = "acceptGame"
	EventPlaceMarker            = "placeMarker"
	EventSendMessage            = "sendMessage"
)

// Server-pushed events
const (
	// EventInit carries the connection's session id, sent immediately on connect
	EventInit = "init"
	// EventGamerJoined is broadcast to all other connections on a successful login
	EventGamerJoined = "gamerJoined"
	// EventGameInvite delivers an invite to the invitee
	EventGameInvite = "gameInvite"
	// EventGameMove notifies the opponent of an accepted move
	EventGameMove = "gameMove"
	// EventGameOver notifies both players of a win or draw
	EventGameOver = "gameOver"
	// EventChatMessage delivers a chat message to the opponent
	EventChatMessage = "chatMessage"
)
