package repository

import (
	"context"

	"user-registry/internal/domain"
)

// UserRepository defines methods for user data access.
// Implementations keep users in insertion order and never remove them.
type UserRepository interface {
	Append(user domain.User)
	Filter(keep func(domain.User) bool) []domain.User
	Count() int
	StreamAll(ctx context.Context, callback func(domain.User) error) error
}
