package memrepo

import (
	"context"
	"sort"
	"sync"

	"coderhack/internal/domain"
)

// MemoryRepo stores user records in process memory for testing or lightweight usage.
type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// New returns an initialized in-memory repository.
func New() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]domain.User)}
}

// FindAllOrderByScoreDesc breaks score ties by UserID.
func (r *MemoryRepo) FindAllOrderByScoreDesc(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		c := u
		out = append(out, &c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *MemoryRepo) FindByID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepo) ExistsByID(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[userID]
	return ok, nil
}

func (r *MemoryRepo) Save(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.UserID] = *u
	return nil
}

func (r *MemoryRepo) DeleteByID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, userID)
	return nil
}
