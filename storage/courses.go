package storage

import (
	"context"

	"github.com/trezcool/masomo-lms/core"
	"github.com/trezcool/masomo-lms/core/course"
)

func (s *Store) courseIndex(id string) int {
	for idx, c := range s.state.Courses {
		if c.ID == id {
			return idx
		}
	}
	return -1
}

func (s *Store) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	crs.ID = core.NewID(course.IDPrefix)
	for s.courseIndex(crs.ID) >= 0 {
		crs.ID = core.NewID(course.IDPrefix)
	}
	crs = crs.Copy()
	s.state.Courses = append(s.state.Courses, crs)
	return crs.Copy(), s.save(ctx)
}

func (s *Store) QueryAllCourses(_ context.Context) ([]course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]course.Course, 0, len(s.state.Courses))
	for _, c := range s.state.Courses {
		courses = append(courses, c.Copy())
	}
	return courses, nil
}

func (s *Store) FilterCourses(_ context.Context, filter course.QueryFilter) ([]course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]course.Course, 0)
	for _, c := range s.state.Courses {
		if filter.Match(c) {
			courses = append(courses, c.Copy())
		}
	}
	return courses, nil
}

func (s *Store) GetCourseByID(_ context.Context, id string) (course.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.courseIndex(id); idx >= 0 {
		return s.state.Courses[idx].Copy(), nil
	}
	return course.Course{}, course.ErrNotFound
}

func (s *Store) AddStudent(ctx context.Context, courseID, studentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.courseIndex(courseID)
	if idx < 0 {
		return course.ErrNotFound
	}
	crs := &s.state.Courses[idx]
	if course.IsEnrolled(*crs, studentID) {
		return course.ErrAlreadyEnrolled
	}
	crs.Students = append(crs.Students, studentID)
	return s.save(ctx)
}
