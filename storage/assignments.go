package storage

import (
	"context"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/assignment"
)

func (s *Store) assignmentIndex(id string) int {
	for idx, a := range s.state.Assignments {
		if a.ID == id {
			return idx
		}
	}
	return -1
}

func (s *Store) CreateAssignment(ctx context.Context, asgmt assignment.Assignment) (assignment.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	asgmt.ID = core.NewID(assignment.IDPrefix)
	for s.assignmentIndex(asgmt.ID) >= 0 {
		asgmt.ID = core.NewID(assignment.IDPrefix)
	}
	asgmt = asgmt.Copy()
	s.state.Assignments = append(s.state.Assignments, asgmt)
	return asgmt.Copy(), s.save(ctx)
}

func (s *Store) QueryAllAssignments(_ context.Context) ([]assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := make([]assignment.Assignment, 0, len(s.state.Assignments))
	for _, a := range s.state.Assignments {
		assignments = append(assignments, a.Copy())
	}
	return assignments, nil
}

func (s *Store) FilterAssignments(_ context.Context, filter assignment.QueryFilter) ([]assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, a := range s.state.Assignments {
		if filter.Match(a) {
			assignments = append(assignments, a.Copy())
		}
	}
	return assignments, nil
}

func (s *Store) GetAssignmentByID(_ context.Context, id string) (assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.assignmentIndex(id); idx >= 0 {
		return s.state.Assignments[idx].Copy(), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (s *Store) AddSubmission(ctx context.Context, assignmentID string, sub assignment.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.assignmentIndex(assignmentID)
	if idx < 0 {
		return assignment.ErrNotFound
	}
	asgmt := &s.state.Assignments[idx]
	if assignment.HasSubmitted(*asgmt, sub.StudentID) {
		return assignment.ErrAlreadySubmitted
	}
	asgmt.Submissions = append(asgmt.Submissions, sub)
	return s.save(ctx)
}

func (s *Store) SetGrade(ctx context.Context, assignmentID string, index int, grade string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.assignmentIndex(assignmentID)
	if idx < 0 {
		return assignment.ErrNotFound
	}
	asgmt := &s.state.Assignments[idx]
	if index < 0 || index >= len(asgmt.Submissions) {
		return assignment.ErrSubmissionNotFound
	}
	asgmt.Submissions[index].Grade = null.StringFrom(grade)
	return s.save(ctx)
}
