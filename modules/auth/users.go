package auth

import (
	"context"

	domain "github.com/example/task-api/domain/user"
	"github.com/example/task-api/modules/cache"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// userLookup loads users by ID for token resolution. Users never change after
// registration, so cached entries need no invalidation. Concurrent misses for
// the same ID share one database read.
type userLookup struct {
	repo   *UserRepository
	cache  *cache.Cache
	group  singleflight.Group
	logger types.Logger
}

func newUserLookup(repo *UserRepository, c *cache.Cache, logger types.Logger) *userLookup {
	return &userLookup{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

// Get returns the user with id. The cache is optional; its failures are
// logged and the database answers instead.
//
// The shared read outlives the caller that started it, so it runs detached
// from that caller's cancellation.
func (l *userLookup) Get(ctx context.Context, id string) (*domain.User, error) {
	v, err, _ := l.group.Do(id, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		if l.cache != nil {
			var cached domain.User
			found, err := l.cache.Get(ctx, id, &cached)
			if err != nil {
				l.logger.Warn("User cache read failed", "user_id", id, "error", err)
			} else if found {
				return &cached, nil
			}
		}

		user, err := l.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if l.cache != nil {
			if err := l.cache.Set(ctx, id, user); err != nil {
				l.logger.Warn("User cache write failed", "user_id", id, "error", err)
			}
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	// Callers sharing a flight must not share the pointer.
	user := *v.(*domain.User)
	return &user, nil
}
