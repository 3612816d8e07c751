package memory

import (
	"time"

	"support-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// UserCache holds recently resolved user projections for /auth/me. Entries
// expire on their own; writes to a user must call Invalidate.
type UserCache struct {
	cache *cache.Cache
}

func NewUserCache() *UserCache {
	// Default expiration 5 minutes, purge sweep every 10.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &UserCache{
		cache: c,
	}
}

func (r *UserCache) Save(user *entity.User) {
	r.cache.Set(user.Id.String(), user, cache.DefaultExpiration)
}

func (r *UserCache) Get(id uuid.UUID) (*entity.User, bool) {
	if x, found := r.cache.Get(id.String()); found {
		return x.(*entity.User), true
	}
	return nil, false
}

func (r *UserCache) Invalidate(id uuid.UUID) {
	r.cache.Delete(id.String())
}
