package redis

import (
	"fmt"

	"github.com/mcoot/tictacgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "ttgame"

// Key generation functions for each entity type

// userKey returns the Redis key for a User
func userKey(userName string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, userName)
}

// gamerKey returns the Redis key for a Gamer presence record
func gamerKey(userName string) string {
	return fmt.Sprintf("%s:gamer:%s", keyPrefix, userName)
}

// sidIndexKey returns the Redis key for the sid -> user name index
func sidIndexKey(sid string) string {
	return fmt.Sprintf("%s:idx:sid:%s", keyPrefix, sid)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}
