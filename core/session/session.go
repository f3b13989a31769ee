package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/user"
)

type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

type (
	// UserService is the subset of user.Service the Manager relies on.
	UserService interface {
		Register(ctx context.Context, nu user.NewUser) (user.User, error)
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	// Manager remembers the logged in User across restarts.
	// The session record is stored apart from the main state.
	Manager struct {
		medium core.Medium
		key    string
		users  UserService
		log    core.Logger

		mu      sync.RWMutex
		current *user.User
	}
)

func NewManager(medium core.Medium, key string, users UserService, log core.Logger) *Manager {
	return &Manager{
		medium: medium,
		key:    key,
		users:  users,
		log:    log,
	}
}

// Restore loads the remembered User. A missing, unreadable or stale record is discarded.
func (m *Manager) Restore(ctx context.Context) (user.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	data, err := m.medium.Get(ctx, m.key)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			m.log.Warn("reading session", err)
		}
		return user.User{}, false
	}

	var saved user.User
	if err = json.Unmarshal(data, &saved); err != nil {
		m.log.Warn("discarding unreadable session", err)
		m.discard(ctx)
		return user.User{}, false
	}
	usr, err := m.users.GetByID(ctx, saved.ID)
	if err != nil {
		if !core.IsNotFound(err) {
			m.log.Warn("looking up session user", err)
		}
		m.discard(ctx)
		return user.User{}, false
	}

	m.current = &usr
	return usr, true
}

// Begin makes usr the active User and remembers it.
// usr stays active even if the record could not be written.
func (m *Manager) Begin(ctx context.Context, usr user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = &usr
	data, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err = m.medium.Put(ctx, m.key, data); err != nil {
		return &core.StorageError{Op: "put", Key: m.key, Err: err}
	}
	return nil
}

// End forgets the active User. Calling it while logged out is a no-op.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	if err := m.medium.Delete(ctx, m.key); err != nil {
		return &core.StorageError{Op: "delete", Key: m.key, Err: err}
	}
	return nil
}

// Login registers a new User and begins its session.
func (m *Manager) Login(ctx context.Context, name string, role user.Role) (user.User, error) {
	usr, err := m.users.Register(ctx, user.NewUser{Name: name, Role: role})
	if err != nil && !core.IsStorage(err) {
		return user.User{}, err
	}
	regErr := err

	if err = m.Begin(ctx, usr); err != nil {
		m.log.Error("session not persisted", err, usr)
	}
	return usr, regErr
}

func (m *Manager) Current() (user.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return user.User{}, false
	}
	return *m.current, true
}

func (m *Manager) State() State {
	if _, ok := m.Current(); ok {
		return LoggedIn
	}
	return LoggedOut
}

func (m *Manager) discard(ctx context.Context) {
	if err := m.medium.Delete(ctx, m.key); err != nil {
		m.log.Warn("discarding session", err)
	}
}
