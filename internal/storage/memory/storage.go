package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. The
// conditional board update is serialized under the storage mutex, giving the
// same at-most-one-accepted-move-per-turn guarantee as the Redis
// implementation's optimistic transaction. Gamer records expire lazily:
// lookups treat a record whose UpdatedOn is older than the gamer TTL as
// absent, matching the key TTL the Redis implementation applies.
type Storage struct {
	mu sync.RWMutex

	users    map[string]*model.User  // keyed by user name
	gamers   map[string]*model.Gamer // keyed by user name
	sidIndex map[string]string       // sid -> user name
	games    map[model.GameID]*model.Game

	gamerTTL time.Duration
	now      func() time.Time
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:    make(map[string]*model.User),
		gamers:   make(map[string]*model.Gamer),
		sidIndex: make(map[string]string),
		games:    make(map[model.GameID]*model.Game),
		gamerTTL: time.Hour,
		now:      time.Now,
	}
}

// SetGamerTTL overrides how long an untouched gamer record stays visible
func (s *Storage) SetGamerTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gamerTTL = ttl
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.UserName]; ok {
		return model.ErrUserExists
	}
	u := *user
	s.users[user.UserName] = &u
	return nil
}

func (s *Storage) FindUserByUserName(ctx context.Context, userName string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userName]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

// Gamer operations

func (s *Storage) UpsertGamer(ctx context.Context, userName, fullName, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop the sid index entry from this user's previous connection
	if old, ok := s.gamers[userName]; ok {
		delete(s.sidIndex, old.Sid)
	}

	s.gamers[userName] = &model.Gamer{
		UserName:  userName,
		FullName:  fullName,
		Sid:       sid,
		UpdatedOn: s.now(),
	}
	s.sidIndex[sid] = userName
	return nil
}

func (s *Storage) FindGamerBySid(ctx context.Context, sid string) (*model.Gamer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findGamerBySidLocked(sid)
}

func (s *Storage) findGamerBySidLocked(sid string) (*model.Gamer, error) {
	userName, ok := s.sidIndex[sid]
	if !ok {
		return nil, model.ErrGamerNotFound
	}
	gamer, ok := s.gamers[userName]
	if !ok || gamer.Sid != sid {
		return nil, model.ErrGamerNotFound
	}
	if s.now().Sub(gamer.UpdatedOn) > s.gamerTTL {
		return nil, model.ErrGamerNotFound
	}
	g := *gamer
	return &g, nil
}

func (s *Storage) FindGamersBySids(ctx context.Context, sids []string) ([]*model.Gamer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gamers := make([]*model.Gamer, 0, len(sids))
	for _, sid := range sids {
		gamer, err := s.findGamerBySidLocked(sid)
		if err != nil {
			continue
		}
		gamers = append(gamers, gamer)
	}
	return gamers, nil
}

func (s *Storage) TouchGamers(ctx context.Context, sids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, sid := range sids {
		if userName, ok := s.sidIndex[sid]; ok {
			if gamer, ok := s.gamers[userName]; ok && gamer.Sid == sid {
				// An already-expired record stays expired; touch is a refresh,
				// not a resurrection
				if now.Sub(gamer.UpdatedOn) > s.gamerTTL {
					continue
				}
				gamer.UpdatedOn = now
			}
		}
	}
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *game
	g.Board = game.Board.Clone()
	g.Chat = append([]model.ChatMessage(nil), game.Chat...)
	s.games[game.ID] = &g
	return nil
}

func (s *Storage) FindGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	g := *game
	g.Board = game.Board.Clone()
	g.Chat = append([]model.ChatMessage(nil), game.Chat...)
	return &g, nil
}

func (s *Storage) UpdateBoard(ctx context.Context, sid string, id model.GameID, nextSid string, board model.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return model.ErrGameNotFound
	}
	if game.CurrentPlayer != sid {
		return model.ErrNotYourTurn
	}
	game.Board = board.Clone()
	game.CurrentPlayer = nextSid
	return nil
}

func (s *Storage) AppendChatMessage(ctx context.Context, id model.GameID, msg model.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return model.ErrGameNotFound
	}
	game.Chat = append(game.Chat, msg)
	return nil
}
