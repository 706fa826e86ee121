package service

import (
	"errors"
	"log/slog"
	"strings"

	"user-registry/internal/domain"
	"user-registry/internal/logger"
	"user-registry/internal/metrics"
	"user-registry/internal/repository"
)

// ManagerConfig holds the settings a UserManager is created with.
type ManagerConfig struct {
	// MaxUsers is recorded but not enforced; AddUser never rejects on it.
	MaxUsers int
	// EnableLogging emits an info line for every created user.
	EnableLogging bool
}

// DefaultManagerConfig returns MaxUsers 1000 with logging enabled.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxUsers:      1000,
		EnableLogging: true,
	}
}

// UserManager owns an ordered, append-only collection of users.
type UserManager struct {
	repo   repository.UserRepository
	config ManagerConfig
	log    *slog.Logger
}

// NewUserManager creates a UserManager. A nil repo gets an empty in-memory
// repository and a nil log falls back to the package default logger.
func NewUserManager(cfg ManagerConfig, repo repository.UserRepository, log *slog.Logger) *UserManager {
	if repo == nil {
		repo = repository.NewMemoryUserRepository()
	}
	if log == nil {
		log = logger.Default()
	}
	return &UserManager{
		repo:   repo,
		config: cfg,
		log:    log,
	}
}

// Config returns the configuration the manager was created with.
func (m *UserManager) Config() ManagerConfig {
	return m.config
}

// AddUser validates the input and appends the new user.
// Validation errors from domain.NewUser are returned as is. Duplicate names
// and emails are accepted.
func (m *UserManager) AddUser(name, email string, role domain.Role) error {
	user, err := domain.NewUser(name, email, role)
	if err != nil {
		metrics.ObserveValidationFailure(failureReason(err))
		return err
	}

	if m.config.EnableLogging {
		m.log.Info("User created",
			slog.String("name", user.Name),
			slog.String("email", user.Email))
	}

	m.repo.Append(user)
	metrics.ObserveUserAdded(user.Role.String(), m.repo.Count())
	return nil
}

// UsersByRole returns the active users with the given role in insertion order.
// The returned values are copies.
func (m *UserManager) UsersByRole(role domain.Role) []domain.User {
	return m.repo.Filter(func(u domain.User) bool {
		return u.Role == role && u.IsActive
	})
}

// UserByEmail returns the first user whose email matches, ignoring case.
func (m *UserManager) UserByEmail(email string) (domain.User, bool) {
	email = strings.ToLower(email)
	found := m.repo.Filter(func(u domain.User) bool {
		return u.Email == email
	})
	if len(found) == 0 {
		return domain.User{}, false
	}
	return found[0], true
}

// Users returns every stored user in insertion order, active or not.
func (m *UserManager) Users() []domain.User {
	return m.repo.Filter(func(domain.User) bool { return true })
}

// UserCount returns the number of stored users, including inactive ones.
func (m *UserManager) UserCount() int {
	return m.repo.Count()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyName):
		return metrics.ReasonEmptyName
	case errors.Is(err, domain.ErrInvalidEmail):
		return metrics.ReasonInvalidEmail
	case errors.Is(err, domain.ErrUnknownRole):
		return metrics.ReasonUnknownRole
	default:
		return metrics.ReasonOther
	}
}
