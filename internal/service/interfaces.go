package service

import (
	"user-registry/internal/domain"
)

// UserRegistrar is the write side of UserManager used by the importer.
// Used for dependency injection and mocking in tests.
type UserRegistrar interface {
	AddUser(name, email string, role domain.Role) error
}
