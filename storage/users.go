package storage

import (
	"context"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

func (s *Store) userIDExists(id string) bool {
	_, ok := user.FindByID(s.state.Users, id)
	return ok
}

func (s *Store) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usr.ID = core.NewID(user.IDPrefix)
	for s.userIDExists(usr.ID) {
		usr.ID = core.NewID(user.IDPrefix)
	}
	s.state.Users = append(s.state.Users, usr)
	return usr, s.save(ctx)
}

func (s *Store) QueryAllUsers(_ context.Context) ([]user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]user.User, len(s.state.Users))
	copy(users, s.state.Users)
	return users, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if usr, ok := user.FindByID(s.state.Users, id); ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}
