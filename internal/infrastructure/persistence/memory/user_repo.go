// Package memory implements in-memory repositories. Used in tests and in
// development mode when no database URL is configured. All access is guarded
// by a mutex and every read returns a copy, so per-record save is atomic.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fittrack-hub/fitness-tracker-hub/internal/domain/user"
)

// UserRepository implements user.Repository in memory.
type UserRepository struct {
	mu    sync.RWMutex
	seq   int64
	users map[int64]*user.User
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*user.User)}
}

// Insert stores a new user, assigning the next ID.
func (r *UserRepository) Insert(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, user.ErrEmailTaken
		}
	}

	r.seq++
	stored := *u
	stored.ID = r.seq
	r.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

// FindByID returns the user with the given ID, or nil if none exists.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

// FindByEmail returns the user with the exact email, or nil if none exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

// FindAll returns every user ordered by ID.
func (r *UserRepository) FindAll(ctx context.Context) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*user.User) bool { return true }), nil
}

// Save updates an existing user keyed by its ID.
func (r *UserRepository) Save(ctx context.Context, u *user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *u
	r.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

// Delete removes the user with the given ID. Unknown IDs are a no-op.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// SearchByEmail returns users whose email contains the fragment,
// case-insensitively.
func (r *UserRepository) SearchByEmail(ctx context.Context, fragment string) ([]*user.User, error) {
	needle := strings.ToLower(fragment)

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(u *user.User) bool {
		return strings.Contains(strings.ToLower(u.Email), needle)
	}), nil
}

// FindBornBefore returns users born strictly before the cutoff.
func (r *UserRepository) FindBornBefore(ctx context.Context, cutoff time.Time) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(u *user.User) bool {
		return u.Birthdate.Before(cutoff)
	}), nil
}

// collect returns copies of all users matching the predicate, ordered by ID.
// Callers must hold at least the read lock.
func (r *UserRepository) collect(match func(*user.User) bool) []*user.User {
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		if match(u) {
			c := *u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
