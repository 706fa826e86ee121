package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-registry/internal/domain"
	"user-registry/internal/repository"
)

func newUser(t *testing.T, name string, role domain.Role) domain.User {
	t.Helper()
	u, err := domain.NewUser(name, name+"@example.com", role)
	require.NoError(t, err)
	return u
}

func TestMemoryUserRepository_AppendAndCount(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	assert.Equal(t, 0, repo.Count())

	repo.Append(newUser(t, "a", domain.RoleUser))
	repo.Append(newUser(t, "a", domain.RoleUser))

	assert.Equal(t, 2, repo.Count(), "duplicates are kept")
}

func TestMemoryUserRepository_Filter(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	for _, n := range []string{"one", "two", "three", "four"} {
		role := domain.RoleUser
		if len(n) == 3 {
			role = domain.RoleAdmin
		}
		repo.Append(newUser(t, n, role))
	}

	admins := repo.Filter(func(u domain.User) bool { return u.Role == domain.RoleAdmin })
	require.Len(t, admins, 2)
	assert.Equal(t, "one", admins[0].Name)
	assert.Equal(t, "two", admins[1].Name)

	none := repo.Filter(func(domain.User) bool { return false })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryUserRepository_FilterReturnsCopies(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	repo.Append(newUser(t, "a", domain.RoleUser))

	got := repo.Filter(func(domain.User) bool { return true })
	got[0].Name = "changed"

	again := repo.Filter(func(domain.User) bool { return true })
	assert.Equal(t, "a", again[0].Name)
}

func TestMemoryUserRepository_StreamAll(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	for i := 0; i < 5; i++ {
		repo.Append(newUser(t, fmt.Sprintf("u%d", i), domain.RoleUser))
	}

	t.Run("visits in order", func(t *testing.T) {
		var names []string
		err := repo.StreamAll(context.Background(), func(u domain.User) error {
			names = append(names, u.Name)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"u0", "u1", "u2", "u3", "u4"}, names)
	})

	t.Run("stops on callback error", func(t *testing.T) {
		stop := errors.New("stop")
		visited := 0
		err := repo.StreamAll(context.Background(), func(domain.User) error {
			visited++
			if visited == 2 {
				return stop
			}
			return nil
		})
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 2, visited)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := repo.StreamAll(ctx, func(domain.User) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("callback may append", func(t *testing.T) {
		before := repo.Count()
		err := repo.StreamAll(context.Background(), func(u domain.User) error {
			repo.Append(u)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, before*2, repo.Count())
	})
}

func TestMemoryUserRepository_ConcurrentAppend(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	u := newUser(t, "c", domain.RoleUser)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Append(u)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, repo.Count())
}
