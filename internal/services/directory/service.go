package directory

import (
	"context"

	"github.com/mcoot/tictacgame-go/internal/model"
	"github.com/mcoot/tictacgame-go/internal/registry"
	"github.com/mcoot/tictacgame-go/internal/storage"
)

// Service lists which authenticated users are currently available to play.
// Liveness is derived from the session registry (currently connected), then
// joined against the stored presence records by session id. Listing also
// refreshes the returned records' last-active time, which is the lazy signal
// the storage layer's TTL expiry consumes.
type Service struct {
	storage  storage.Storage
	registry *registry.Registry
}

// New creates a new directory Service
func New(storage storage.Storage, reg *registry.Registry) *Service {
	return &Service{
		storage:  storage,
		registry: reg,
	}
}

// ListAvailable returns the gamer records for every live connection other
// than the caller's
func (s *Service) ListAvailable(ctx context.Context, excludingSid string) ([]*model.Gamer, error) {
	sids := s.registry.LiveSidsExcept(excludingSid)

	gamers, err := s.storage.FindGamersBySids(ctx, sids)
	if err != nil {
		return nil, err
	}

	if err := s.storage.TouchGamers(ctx, sids); err != nil {
		return nil, err
	}

	return gamers, nil
}
