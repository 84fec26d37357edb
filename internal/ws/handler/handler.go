package handler

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/protocol"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/services/auth"
	"github.com/mcoot/tictacgame-go/internal/services/directory"
	"github.com/mcoot/tictacgame-go/internal/services/game"
	"github.com/mcoot/tictacgame-go/internal/services/match"
	"github.com/mcoot/tictacgame-go/internal/ws"
)

// Config holds the dependencies for the event handlers
type Config struct {
	Logger    *slog.Logger
	Registry  *registry.Registry
	Auth      *auth.Service
	Directory *directory.Service
	Match     *match.Coordinator
	Games     *game.Service
}

// Handlers binds the websocket event surface to the services behind it.
// Every handler speaks the standard envelope: errors go back to the calling
// connection as an error envelope on the event that was invoked.
type Handlers struct {
	logger    *slog.Logger
	registry  *registry.Registry
	validate  *validator.Validate
	auth      *auth.Service
	directory *directory.Service
	match     *match.Coordinator
	games     *game.Service
}

// New creates the Handlers
func New(cfg Config) *Handlers {
	return &Handlers{
		logger:    cfg.Logger.With(slog.String("component", "handler")),
		registry:  cfg.Registry,
		validate:  validator.New(),
		auth:      cfg.Auth,
		directory: cfg.Directory,
		match:     cfg.Match,
		games:     cfg.Games,
	}
}

// NewRouter builds a router with every event handler registered
func NewRouter(cfg Config) *ws.Router {
	h := New(cfg)
	router := ws.NewRouter(cfg.Logger)
	h.Register(router)
	return router
}

// Register wires all event handlers into the router
func (h *Handlers) Register(router *ws.Router) {
	router.Handle(protocol.EventRegister, h.handleRegister)
	router.Handle(protocol.EventLogin, h.handleLogin)
	router.Handle(protocol.EventFindAllAvailableGamers, h.handleFindAllAvailableGamers)
	router.Handle(protocol.EventInviteGamer, h.handleInviteGamer)
	router.Handle(protocol.EventDeclineGame, h.handleDeclineGame)
	router.Handle(protocol.EventAcceptGame, h.handleAcceptGame)
	router.Handle(protocol.EventPlaceMarker, h.handlePlaceMarker)
	router.Handle(protocol.EventSendMessage, h.handleSendMessage)
}

// decode unmarshals and validates an event payload
func (h *Handlers) decode(data json.RawMessage, req any) error {
	if err := json.Unmarshal(data, req); err != nil {
		return err
	}
	return h.validate.Struct(req)
}

// requireAuth checks that the session has logged in, reporting the standard
// error envelope if not
func (h *Handlers) requireAuth(conn registry.Conn, event string) bool {
	if !h.registry.IsAuthenticated(conn.SessionID()) {
		conn.Send(protocol.Error(event, "User not authenticated"))
		return false
	}
	return true
}

// sendError maps a service error to the wire message for the given event.
// Errors outside the known taxonomy (storage failures and the like) surface
// with their own message text.
func (h *Handlers) sendError(conn registry.Conn, event string, err error) {
	conn.Send(protocol.Error(event, errorMessage(event, err)))
}

func errorMessage(event string, err error) string {
	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		return "User not authenticated"
	case errors.Is(err, model.ErrPeerUnavailable):
		if event == protocol.EventInviteGamer {
			return "Invited user is no longer available"
		}
		return "User is no longer available"
	case errors.Is(err, model.ErrInvalidCredentials):
		return "User or Password is incorrect"
	case errors.Is(err, model.ErrPlayersNotFound):
		return "Failed to locate players for game acceptance"
	case errors.Is(err, model.ErrGameNotFound):
		return "Could not find the game"
	case errors.Is(err, model.ErrCellOccupied):
		return "Cell already selected"
	case errors.Is(err, model.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, model.ErrInvalidPosition):
		return "Invalid board position"
	default:
		return err.Error()
	}
}

// validationMessage is the error reported for malformed or incomplete
// request payloads
const validationMessage = "Missing or invalid fields"
