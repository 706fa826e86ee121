package repository

import (
	"context"
	"sync"

	"user-registry/internal/domain"
)

// MemoryUserRepository implements UserRepository on an ordered slice.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []domain.User
}

// NewMemoryUserRepository creates an empty MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make([]domain.User, 0)}
}

// Append adds a user at the end of the sequence.
func (r *MemoryUserRepository) Append(user domain.User) {
	r.mu.Lock()
	r.users = append(r.users, user)
	r.mu.Unlock()
}

// Filter returns copies of the users for which keep returns true, in insertion order.
func (r *MemoryUserRepository) Filter(keep func(domain.User) bool) []domain.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.User, 0)
	for _, u := range r.users {
		if keep(u) {
			result = append(result, u)
		}
	}
	return result
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// StreamAll calls callback for every user in insertion order.
// It iterates over a snapshot, so callback may call back into the repository.
func (r *MemoryUserRepository) StreamAll(ctx context.Context, callback func(domain.User) error) error {
	r.mu.RLock()
	snapshot := make([]domain.User, len(r.users))
	copy(snapshot, r.users)
	r.mu.RUnlock()

	for _, u := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(u); err != nil {
			return err
		}
	}
	return nil
}
