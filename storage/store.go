package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/assignment"
	"github.com/trezcool/masomo-lms/core/course"
	"github.com/trezcool/masomo-lms/core/user"
	"github.com/trezcool/masomo-lms/services/metrics"
)

const (
	DefaultStateKey = "lms_demo_data_v1"
	DefaultQuota    = 5 * 1024 * 1024 // browsers' local storage limit
)

// State is the whole persisted main record.
type State struct {
	Users       []user.User             `json:"users"`
	Courses     []course.Course         `json:"courses"`
	Assignments []assignment.Assignment `json:"assignments"`
}

// Copy returns a deep copy of s.
func (s State) Copy() State {
	cp := State{
		Users:       make([]user.User, len(s.Users)),
		Courses:     make([]course.Course, 0, len(s.Courses)),
		Assignments: make([]assignment.Assignment, 0, len(s.Assignments)),
	}
	copy(cp.Users, s.Users)
	for _, c := range s.Courses {
		cp.Courses = append(cp.Courses, c.Copy())
	}
	for _, a := range s.Assignments {
		cp.Assignments = append(cp.Assignments, a.Copy())
	}
	return cp
}

// SeedState is the state of a fresh install: two courses without instructor.
func SeedState() State {
	return State{
		Users: []user.User{},
		Courses: []course.Course{
			{ID: "c1", Title: "Intro to Web", Description: "HTML, CSS, JS basics", Students: []string{}},
			{ID: "c2", Title: "Data Structures", Description: "Arrays, LinkedList, Trees", Students: []string{}},
		},
		Assignments: []assignment.Assignment{},
	}
}

type Options struct {
	StateKey string
	// Quota is the max size of the serialized state, in bytes. Zero disables the check.
	Quota  int
	Logger core.Logger
}

// Store owns the users, courses & assignments collections.
// Every mutation is saved to the medium before returning; a failed save leaves memory mutated.
type Store struct {
	medium core.Medium
	key    string
	quota  int
	log    core.Logger

	mu    sync.RWMutex
	state State
}

var (
	_ user.Repository       = (*Store)(nil) // interface compliance check
	_ course.Repository     = (*Store)(nil)
	_ assignment.Repository = (*Store)(nil)
)

// Open loads the Store from medium.
// When the stored state is corrupt, the returned Store holds the seed state and
// the error wraps core.ErrStorageCorrupt: it is a warning, the Store is usable.
func Open(ctx context.Context, medium core.Medium, opts Options) (*Store, error) {
	if opts.StateKey == "" {
		opts.StateKey = DefaultStateKey
	}
	s := &Store{
		medium: medium,
		key:    opts.StateKey,
		quota:  opts.Quota,
		log:    opts.Logger,
	}
	state, err := s.Load(ctx)
	s.state = state
	if err != nil && !errors.Is(err, core.ErrStorageCorrupt) {
		return nil, err
	}
	return s, err
}

// Load reads the state from the medium. An absent or corrupt record is replaced by the seed state.
func (s *Store) Load(ctx context.Context) (State, error) {
	data, err := s.medium.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, core.ErrKeyNotFound) {
			return State{}, &core.StorageError{Op: "get", Key: s.key, Err: err}
		}
		return s.seed(ctx, nil)
	}

	var state State
	if err = json.Unmarshal(data, &state); err != nil {
		s.log.Warn("error loading data, resetting to defaults", err)
		return s.seed(ctx, &core.StorageError{Op: "load", Key: s.key, Err: core.ErrStorageCorrupt})
	}
	state.normalize()
	return state, nil
}

func (s *Store) seed(ctx context.Context, loadErr error) (State, error) {
	state := SeedState()
	if err := s.Save(ctx, state); err != nil {
		s.log.Error("saving seed state", err)
	}
	return state, loadErr
}

// Save serializes state and writes it to the medium.
func (s *Store) Save(ctx context.Context, state State) error {
	data, err := json.Marshal(state)
	if err != nil {
		metrics.ObserveStoreWrite(0, err)
		return &core.StorageError{Op: "encode", Key: s.key, Err: err}
	}
	if s.quota > 0 && len(data) > s.quota {
		metrics.ObserveStoreWrite(len(data), core.ErrStorageFull)
		return &core.StorageError{Op: "put", Key: s.key, Err: core.ErrStorageFull}
	}
	if err = s.medium.Put(ctx, s.key, data); err != nil {
		metrics.ObserveStoreWrite(len(data), err)
		return &core.StorageError{Op: "put", Key: s.key, Err: err}
	}
	metrics.ObserveStoreWrite(len(data), nil)
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Copy()
}

// Reset replaces the current state with the seed state.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = SeedState()
	return s.Save(ctx, s.state)
}

// save persists the current state; the caller holds the write lock.
func (s *Store) save(ctx context.Context) error {
	if err := s.Save(ctx, s.state); err != nil {
		s.log.Error("error saving state", err)
		return err
	}
	return nil
}

// normalize replaces null collections left by hand-edited records.
func (st *State) normalize() {
	if st.Users == nil {
		st.Users = []user.User{}
	}
	if st.Courses == nil {
		st.Courses = []course.Course{}
	}
	if st.Assignments == nil {
		st.Assignments = []assignment.Assignment{}
	}
	for i := range st.Courses {
		if st.Courses[i].Students == nil {
			st.Courses[i].Students = []string{}
		}
	}
	for i := range st.Assignments {
		if st.Assignments[i].Submissions == nil {
			st.Assignments[i].Submissions = []assignment.Submission{}
		}
	}
}
