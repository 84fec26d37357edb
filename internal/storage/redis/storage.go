package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// maxTxRetries bounds optimistic transaction retries when a watched game key
// is modified concurrently (a competing move or a chat append).
const maxTxRetries = 5

// Storage is a Redis-backed implementation of the storage interface. The
// conditional board update is an optimistic WATCH/MULTI transaction keyed on
// the game document: the write only commits if the stored CurrentPlayer
// still equals the acting session id.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// SETNX so a concurrent registration for the same name cannot clobber
	set, err := s.client.SetNX(ctx, userKey(user.UserName), data, 0).Result()
	if err != nil {
		return err
	}
	if !set {
		return model.ErrUserExists
	}
	return nil
}

func (s *Storage) FindUserByUserName(ctx context.Context, userName string) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(userName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Gamer operations

func (s *Storage) UpsertGamer(ctx context.Context, userName, fullName, sid string) error {
	gamer := model.Gamer{
		UserName:  userName,
		FullName:  fullName,
		Sid:       sid,
		UpdatedOn: time.Now(),
	}
	data, err := json.Marshal(&gamer)
	if err != nil {
		return err
	}

	// The record and its sid index expire together after GamerTTL. A stale
	// index entry from a previous connection may outlive the overwrite;
	// FindGamerBySid guards against it by verifying the stored sid.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, gamerKey(userName), data, s.cfg.GamerTTL)
	pipe.Set(ctx, sidIndexKey(sid), userName, s.cfg.GamerTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) FindGamerBySid(ctx context.Context, sid string) (*model.Gamer, error) {
	userName, err := s.client.Get(ctx, sidIndexKey(sid)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGamerNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, gamerKey(userName)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGamerNotFound
		}
		return nil, err
	}

	var gamer model.Gamer
	if err := json.Unmarshal(data, &gamer); err != nil {
		return nil, err
	}
	if gamer.Sid != sid {
		// Stale index entry from an earlier connection of the same user
		return nil, model.ErrGamerNotFound
	}
	return &gamer, nil
}

func (s *Storage) FindGamersBySids(ctx context.Context, sids []string) ([]*model.Gamer, error) {
	gamers := make([]*model.Gamer, 0, len(sids))
	for _, sid := range sids {
		gamer, err := s.FindGamerBySid(ctx, sid)
		if err != nil {
			if errors.Is(err, model.ErrGamerNotFound) {
				continue
			}
			return nil, err
		}
		gamers = append(gamers, gamer)
	}
	return gamers, nil
}

func (s *Storage) TouchGamers(ctx context.Context, sids []string) error {
	now := time.Now()
	for _, sid := range sids {
		gamer, err := s.FindGamerBySid(ctx, sid)
		if err != nil {
			if errors.Is(err, model.ErrGamerNotFound) {
				continue
			}
			return err
		}

		gamer.UpdatedOn = now
		data, err := json.Marshal(gamer)
		if err != nil {
			return err
		}

		pipe := s.client.Pipeline()
		pipe.Set(ctx, gamerKey(gamer.UserName), data, s.cfg.GamerTTL)
		pipe.Expire(ctx, sidIndexKey(sid), s.cfg.GamerTTL)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, gameKey(game.ID), data, s.cfg.GameTTL).Err()
}

func (s *Storage) FindGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) UpdateBoard(ctx context.Context, sid string, id model.GameID, nextSid string, board model.Board) error {
	key := gameKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}

		// The turn lock: reject unless it is still this player's turn at
		// write time
		if game.CurrentPlayer != sid {
			return model.ErrNotYourTurn
		}

		game.Board = board
		game.CurrentPlayer = nextSid

		updated, err := json.Marshal(&game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.GameTTL)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		// The game document changed under us; re-read and re-check the turn
	}

	// Every retry lost the race. Conflicts are not necessarily competing
	// moves (a chat append touches the same key), so re-read to see whether
	// the turn actually moved on.
	game, err := s.FindGame(ctx, id)
	if err != nil {
		return err
	}
	if game.CurrentPlayer != sid {
		return model.ErrNotYourTurn
	}
	return fmt.Errorf("board update for game %s did not commit after %d attempts", id, maxTxRetries)
}

func (s *Storage) AppendChatMessage(ctx context.Context, id model.GameID, msg model.ChatMessage) error {
	key := gameKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}

		game.Chat = append(game.Chat, msg)

		updated, err := json.Marshal(&game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, s.cfg.GameTTL)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = s.client.Watch(ctx, txf, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}
